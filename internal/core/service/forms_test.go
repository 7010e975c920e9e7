package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

func TestLockerSave(t *testing.T) {
	tcases := []struct {
		name      string
		form      ports.LockerForm
		editingID int
		wantCall  string
		wantField string
	}{
		{"create", ports.LockerForm{Number: "12", ResidentID: 3, Item: "parcel"}, 0, "CreateLocker", ""},
		{"create without number", ports.LockerForm{ResidentID: 3}, 0, "", "locker_number"},
		{"create without resident", ports.LockerForm{Number: "12"}, 0, "", "resident"},
		{"edit skips validation", ports.LockerForm{Item: "box"}, 7, "UpdateLocker/7", ""},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			be := &fakeBackend{}
			svc := NewLockerService(be, zerolog.Nop())

			err := svc.Save(context.Background(), tc.form, tc.editingID)

			if tc.wantField != "" {
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, tc.wantField)
				assert.Zero(t, be.callCount())
				return
			}
			require.NoError(t, err)
			assert.True(t, be.called(tc.wantCall))
			require.Len(t, be.lockerInputs, 1)
			assert.Equal(t, tc.form.Item, be.lockerInputs[0].Item)
		})
	}
}

func TestLockerDetails(t *testing.T) {
	be := &fakeBackend{
		residents: []domain.Resident{resident(3, "anna", domain.RelationshipOwner, "A1")},
		lockers: []domain.Locker{{ID: 5, Number: "4", ResidentID: 3, Items: []domain.LockerItem{
			{ID: 1, Name: "parcel"},
			{ID: 2, Name: "letter"},
		}}},
		statuses: map[int]domain.ItemStatus{1: domain.ItemWaiting, 2: domain.ItemReceived},
	}
	svc := NewLockerService(be, zerolog.Nop())

	detail, err := svc.Details(context.Background(), 5)
	require.NoError(t, err)

	require.NotNil(t, detail.Resident)
	assert.Equal(t, "anna", detail.Resident.Name)
	assert.Equal(t, []ports.ItemDetail{
		{ID: 1, Name: "parcel", Status: domain.ItemWaiting},
		{ID: 2, Name: "letter", Status: domain.ItemReceived},
	}, detail.Items)
}

func TestLockerDetails_ItemFailureFailsScreen(t *testing.T) {
	be := &fakeBackend{
		residents: []domain.Resident{resident(3, "anna", domain.RelationshipOwner, "A1")},
		lockers:   []domain.Locker{{ID: 5, ResidentID: 3, Items: []domain.LockerItem{{ID: 1}}}},
	}
	svc := NewLockerService(be, zerolog.Nop())

	detail, err := svc.Details(context.Background(), 5)

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLockerDelete(t *testing.T) {
	be := &fakeBackend{}
	require.NoError(t, NewLockerService(be, zerolog.Nop()).Delete(context.Background(), 9))
	assert.True(t, be.called("DeleteLocker/9"))
}

func TestIssueParkingCard(t *testing.T) {
	be := &fakeBackend{cards: []domain.ParkingCard{{CardNumber: "N001"}, {CardNumber: "N007"}, {CardNumber: "bogus"}}}
	svc := NewVisitorService(be, zerolog.Nop())

	card, err := svc.IssueParkingCard(context.Background(), 4, ports.ParkingCardForm{
		VehicleType:  domain.VehicleCar,
		LicensePlate: "  59A-123.45 ",
		Color:        " red",
	})
	require.NoError(t, err)

	assert.Equal(t, "N008", card.CardNumber)
	require.Len(t, be.cardInputs, 1)
	assert.Equal(t, ports.ParkingCardInput{
		CardNumber:   "N008",
		VehicleType:  domain.VehicleCar,
		LicensePlate: "59A-123.45",
		Color:        "red",
		VisitorID:    4,
	}, be.cardInputs[0])
}

func TestIssueParkingCard_Validation(t *testing.T) {
	tcases := []struct {
		name  string
		form  ports.ParkingCardForm
		field string
	}{
		{"blank plate", ports.ParkingCardForm{VehicleType: domain.VehicleCar, LicensePlate: "   "}, "license_plate"},
		{"bad vehicle", ports.ParkingCardForm{VehicleType: "truck", LicensePlate: "X"}, "vehicle_type"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			be := &fakeBackend{}
			_, err := NewVisitorService(be, zerolog.Nop()).IssueParkingCard(context.Background(), 1, tc.form)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
			assert.False(t, be.called("IssueParkingCard"))
		})
	}
}

func TestAccountSave(t *testing.T) {
	form := ports.AccountForm{Username: "bob", FirstName: "Bob", LastName: "Ng", ResidentID: 2}

	env := newTestEnv(t, nil, SessionOptions{})
	accounts := env.app.Accounts()

	err := accounts.Save(context.Background(), form, 0)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")

	require.NoError(t, accounts.Save(context.Background(), form, 15))
	assert.True(t, env.backend.called("UpdateUser/15"))

	form.Password = "pw"
	require.NoError(t, accounts.Save(context.Background(), form, 0))
	assert.True(t, env.backend.called("CreateUser"))
}

func TestAccountToggleActive(t *testing.T) {
	env := newTestEnv(t, nil, SessionOptions{})

	require.NoError(t, env.app.Accounts().ToggleActive(context.Background(), domain.Identity{ID: 3, IsActive: true}))

	assert.Equal(t, map[int]bool{3: false}, env.backend.activeSet)
}

func TestChangePasswordAndAvatar(t *testing.T) {
	env := newTestEnv(t, nil, SessionOptions{OnboardingDelay: 5 * time.Millisecond})
	id := residentIdentity()
	id.Avatar = ""
	env.loginAs(t, id)
	nav := env.app.Navigation()
	require.Eventually(t, func() bool {
		return nav.Position().Focused == domain.ScreenChangePasswordAndAvatar
	}, time.Second, 5*time.Millisecond)

	updated, err := env.app.Accounts().ChangePasswordAndAvatar(context.Background(), ports.ProfileForm{
		Password: "new",
		Confirm:  "new",
		Avatar:   &ports.Avatar{Filename: "me.jpg", Content: strings.NewReader("jpeg")},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/avatar.jpg", updated.Avatar)
	assert.Equal(t, []string{"me.jpg"}, env.images.uploaded)
	assert.Equal(t, &ports.ProfileUpdate{Password: "new", AvatarURL: updated.Avatar}, env.backend.profile)
	assert.Equal(t, updated.Avatar, env.app.State().Identity.Avatar)
	assert.Equal(t, domain.ScreenHome, nav.Position().Focused)
}

func TestChangePasswordAndAvatar_Rejects(t *testing.T) {
	env := newTestEnv(t, nil, SessionOptions{})

	_, err := env.app.Accounts().ChangePasswordAndAvatar(context.Background(), ports.ProfileForm{Password: "a", Confirm: "a"})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	env.loginAs(t, residentIdentity())
	_, err = env.app.Accounts().ChangePasswordAndAvatar(context.Background(), ports.ProfileForm{Password: "a", Confirm: "b"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "confirm")
	assert.False(t, env.backend.called("UpdateCurrentUser"))
}

func TestResidentSelfService(t *testing.T) {
	be := &fakeBackend{
		invoices: []domain.Invoice{{ID: 1, ResidentID: 70}},
		lockers:  []domain.Locker{{ID: 2, Number: "3", ResidentID: 70, Items: []domain.LockerItem{{ID: 8, Name: "box"}}}},
		statuses: map[int]domain.ItemStatus{8: domain.ItemWaiting},
	}
	env := newTestEnv(t, be, SessionOptions{})
	residents := env.app.Residents()

	_, err := residents.MyInvoices(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	env.loginAs(t, residentIdentity())

	invoices, err := residents.MyInvoices(context.Background())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.True(t, be.called("ListResidentInvoices/70"))

	locker, err := residents.MyLocker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 70, locker.Resident.ID)
	assert.Equal(t, []ports.ItemDetail{{ID: 8, Name: "box", Status: domain.ItemWaiting}}, locker.Items)

	var ve *domain.ValidationError
	require.ErrorAs(t, residents.SubmitComplaint(context.Background(), "  "), &ve)
	require.NoError(t, residents.SubmitComplaint(context.Background(), "noisy pipes"))
	assert.Equal(t, []string{"noisy pipes"}, be.feedback)
}

func TestResidentSelfService_AdminForbidden(t *testing.T) {
	env := newTestEnv(t, nil, SessionOptions{})
	env.loginAs(t, adminIdentity())

	_, err := env.app.Residents().MyLocker(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResidentSave(t *testing.T) {
	tcases := []struct {
		name      string
		form      ports.ResidentForm
		editingID int
		wantCall  string
		wantField string
	}{
		{"create", ports.ResidentForm{Name: " Anna ", RelationshipToHead: domain.RelationshipOwner, ApartmentID: 2}, 0, "CreateResident", ""},
		{"edit", ports.ResidentForm{Name: "Anna", RelationshipToHead: domain.RelationshipChild, ApartmentID: 2}, 9, "UpdateResident/9", ""},
		{"without name", ports.ResidentForm{RelationshipToHead: domain.RelationshipOwner, ApartmentID: 2}, 0, "", "name"},
		{"without apartment", ports.ResidentForm{Name: "Anna", RelationshipToHead: domain.RelationshipOwner}, 9, "", "apartment"},
		{"unknown relationship", ports.ResidentForm{Name: "Anna", RelationshipToHead: "cousin", ApartmentID: 2}, 0, "", "relationship_to_head"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			be := &fakeBackend{}
			svc := NewResidentService(nil, be, zerolog.Nop())

			r, err := svc.Save(context.Background(), tc.form, tc.editingID)

			if tc.wantField != "" {
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, tc.wantField)
				assert.Zero(t, be.callCount())
				return
			}
			require.NoError(t, err)
			assert.True(t, be.called(tc.wantCall))
			require.Len(t, be.residentInputs, 1)
			assert.Equal(t, "Anna", be.residentInputs[0].Name)
			assert.Equal(t, tc.form.RelationshipToHead, r.RelationshipToHead)
		})
	}
}

func TestResidentDelete(t *testing.T) {
	be := &fakeBackend{}
	svc := NewResidentService(nil, be, zerolog.Nop())
	require.NoError(t, svc.Delete(context.Background(), 4))
	assert.True(t, be.called("DeleteResident/4"))

	be.resErr = domain.ErrNotFound
	err := svc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResidentApartments_SortedByNumber(t *testing.T) {
	be := &fakeBackend{apartments: []domain.Apartment{
		{ID: 1, Number: "B2"},
		{ID: 2, Number: "A10"},
		{ID: 3, Number: "A9"},
	}}
	svc := NewResidentService(nil, be, zerolog.Nop())

	got, err := svc.Apartments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Apartment{{ID: 3, Number: "A9"}, {ID: 2, Number: "A10"}, {ID: 1, Number: "B2"}}, got)
}
