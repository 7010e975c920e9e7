package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	tcases := []struct {
		name string
		id   *Identity
		want Role
	}{
		{"no resident is admin", &Identity{Username: "admin"}, RoleAdmin},
		{"any username without resident is admin", &Identity{Username: "bob"}, RoleAdmin},
		{"linked resident", &Identity{Username: "bob", Resident: &Resident{ID: 3}}, RoleResident},
		{"admin username with resident", &Identity{Username: "admin", Resident: &Resident{ID: 1}}, RoleResident},
		{"nil identity", nil, ""},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.id))
		})
	}
}

func TestIdentity_NeedsOnboarding(t *testing.T) {
	assert.True(t, (&Identity{Username: "anna"}).NeedsOnboarding())
	assert.False(t, (&Identity{Username: "anna", Avatar: "https://img/x.png"}).NeedsOnboarding())
	assert.False(t, (&Identity{Username: AdminUsername}).NeedsOnboarding())
	assert.False(t, (*Identity)(nil).NeedsOnboarding())
}

func TestIdentity_FullName(t *testing.T) {
	assert.Equal(t, "Anna Tran", (&Identity{Username: "anna", FirstName: "Anna", LastName: "Tran"}).FullName())
	assert.Equal(t, "anna", (&Identity{Username: "anna"}).FullName())
}

func TestRelationship_Priority(t *testing.T) {
	assert.Less(t, RelationshipOwner.Priority(), RelationshipSpouse.Priority())
	assert.Less(t, RelationshipSpouse.Priority(), RelationshipChild.Priority())
	assert.Less(t, RelationshipChild.Priority(), RelationshipOther.Priority())
	assert.Equal(t, UnrecognizedPriority, Relationship("cousin").Priority())
	assert.Equal(t, Unknown, Relationship("cousin").Label())
}

func TestResident_ApartmentNumber(t *testing.T) {
	assert.Equal(t, "A12", (&Resident{Apartment: &Apartment{Number: "A12"}}).ApartmentNumber())
	assert.Equal(t, "", (&Resident{}).ApartmentNumber())
	assert.Equal(t, "", (*Resident)(nil).ApartmentNumber())
}
