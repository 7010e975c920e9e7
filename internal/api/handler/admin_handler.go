package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// AdminHandler serves the administrator's screens.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Residents handles GET /admin/residents.
//
// @Summary      Residents grouped by apartment
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "1-indexed page, three apartments per page"
// @Success      200   {object}  residentsPage
// @Failure      502   {object}  errorResponse
// @Router       /admin/residents [get]
func (h *AdminHandler) Residents(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var page residentsPage
	err = load(c, client, domain.ScreenResidents, func(ctx context.Context) error {
		groups, err := client.Directory().Residents(ctx)
		if err != nil {
			return err
		}
		page = aggregate.Paginate(groups, aggregate.ApartmentGroupsPerPage, pageParam(c))
		return nil
	})
	if err != nil {
		return actionErr("load residents", err)
	}
	return c.JSON(http.StatusOK, page)
}

// Resident handles GET /admin/residents/:id.
//
// @Summary      Resident details
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Resident id"
// @Success      200  {object}  domain.Resident
// @Failure      404  {object}  errorResponse
// @Router       /admin/residents/{id} [get]
func (h *AdminHandler) Resident(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var resident *domain.Resident
	err = load(c, client, domain.ScreenResidentDetails, func(ctx context.Context) error {
		resident, err = client.Residents().ResidentDetail(ctx, id)
		return err
	})
	if err != nil {
		return actionErr("load resident", err)
	}
	return c.JSON(http.StatusOK, resident)
}

// CreateResident handles POST /admin/residents.
//
// @Summary      Create a resident
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ResidentForm  true  "Resident"
// @Success      201   {object}  domain.Resident
// @Failure      400   {object}  errorResponse
// @Router       /admin/residents [post]
func (h *AdminHandler) CreateResident(c echo.Context) error {
	return h.saveResident(c, 0, http.StatusCreated)
}

// UpdateResident handles PATCH /admin/residents/:id.
//
// @Summary      Edit a resident
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Resident id"
// @Param        body  body      ports.ResidentForm  true  "Resident"
// @Success      200   {object}  domain.Resident
// @Failure      400   {object}  errorResponse
// @Router       /admin/residents/{id} [patch]
func (h *AdminHandler) UpdateResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.saveResident(c, id, http.StatusOK)
}

func (h *AdminHandler) saveResident(c echo.Context, id, status int) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var form ports.ResidentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	resident, err := client.Residents().Save(c.Request().Context(), form, id)
	if err != nil {
		return actionErr("save resident", err)
	}
	return c.JSON(status, resident)
}

// DeleteResident handles DELETE /admin/residents/:id.
//
// @Summary      Delete a resident
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Resident id"
// @Success      204
// @Router       /admin/residents/{id} [delete]
func (h *AdminHandler) DeleteResident(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := client.Residents().Delete(c.Request().Context(), id); err != nil {
		return actionErr("delete resident", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Apartments handles GET /admin/apartments, the resident form's picker.
//
// @Summary      Apartments a resident can be assigned to
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Apartment
// @Failure      502  {object}  errorResponse
// @Router       /admin/apartments [get]
func (h *AdminHandler) Apartments(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	apartments, err := client.Residents().Apartments(c.Request().Context())
	if err != nil {
		return actionErr("load apartments", err)
	}
	return c.JSON(http.StatusOK, apartments)
}

// Guests handles GET /admin/guests.
//
// @Summary      Guests
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Visitor
// @Failure      502  {object}  errorResponse
// @Router       /admin/guests [get]
func (h *AdminHandler) Guests(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var guests []domain.Visitor
	err = load(c, client, domain.ScreenGuests, func(ctx context.Context) error {
		guests, err = client.Directory().Guests(ctx)
		return err
	})
	if err != nil {
		return actionErr("load guests", err)
	}
	return c.JSON(http.StatusOK, guests)
}

// Guest handles GET /admin/guests/:id.
//
// @Summary      Guest details
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Visitor id"
// @Success      200  {object}  domain.Visitor
// @Failure      404  {object}  errorResponse
// @Router       /admin/guests/{id} [get]
func (h *AdminHandler) Guest(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var guest *domain.Visitor
	err = load(c, client, domain.ScreenGuestDetails, func(ctx context.Context) error {
		guest, err = client.Visitors().Details(ctx, id)
		return err
	})
	if err != nil {
		return actionErr("load guest", err)
	}
	return c.JSON(http.StatusOK, guest)
}

// IssueParkingCard handles POST /admin/guests/:id/parking-card.
//
// @Summary      Issue a parking card
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Visitor id"
// @Param        body  body      ports.ParkingCardForm  true  "Vehicle"
// @Success      201   {object}  domain.ParkingCard
// @Failure      400   {object}  errorResponse
// @Router       /admin/guests/{id}/parking-card [post]
func (h *AdminHandler) IssueParkingCard(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form ports.ParkingCardForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	card, err := client.Visitors().IssueParkingCard(c.Request().Context(), id, form)
	if err != nil {
		return actionErr("issue parking card", err)
	}
	return c.JSON(http.StatusCreated, card)
}

// Lockers handles GET /admin/lockers.
//
// @Summary      Lockers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "1-indexed page, five lockers per page"
// @Success      200   {object}  lockersPage
// @Failure      502   {object}  errorResponse
// @Router       /admin/lockers [get]
func (h *AdminHandler) Lockers(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var page lockersPage
	err = load(c, client, domain.ScreenLockers, func(ctx context.Context) error {
		lockers, err := client.Directory().Lockers(ctx)
		if err != nil {
			return err
		}
		page = aggregate.Paginate(lockers, aggregate.LockersPerPage, pageParam(c))
		return nil
	})
	if err != nil {
		return actionErr("load lockers", err)
	}
	return c.JSON(http.StatusOK, page)
}

// Locker handles GET /admin/lockers/:id.
//
// @Summary      Locker details with item statuses
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Locker id"
// @Success      200  {object}  ports.LockerDetail
// @Failure      404  {object}  errorResponse
// @Router       /admin/lockers/{id} [get]
func (h *AdminHandler) Locker(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var detail *ports.LockerDetail
	err = load(c, client, domain.ScreenLockerDetails, func(ctx context.Context) error {
		detail, err = client.Lockers().Details(ctx, id)
		return err
	})
	if err != nil {
		return actionErr("load locker", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateLocker handles POST /admin/lockers.
//
// @Summary      Create a locker
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  ports.LockerForm  true  "Locker"
// @Success      201
// @Failure      400   {object}  errorResponse
// @Router       /admin/lockers [post]
func (h *AdminHandler) CreateLocker(c echo.Context) error {
	return h.saveLocker(c, 0, http.StatusCreated)
}

// UpdateLocker handles PATCH /admin/lockers/:id.
//
// @Summary      Edit a locker
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int               true  "Locker id"
// @Param        body  body  ports.LockerForm  true  "Locker"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /admin/lockers/{id} [patch]
func (h *AdminHandler) UpdateLocker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.saveLocker(c, id, http.StatusNoContent)
}

func (h *AdminHandler) saveLocker(c echo.Context, id, status int) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var form ports.LockerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := client.Lockers().Save(c.Request().Context(), form, id); err != nil {
		return actionErr("save locker", err)
	}
	return c.NoContent(status)
}

// DeleteLocker handles DELETE /admin/lockers/:id.
//
// @Summary      Delete a locker
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Locker id"
// @Success      204
// @Router       /admin/lockers/{id} [delete]
func (h *AdminHandler) DeleteLocker(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := client.Lockers().Delete(c.Request().Context(), id); err != nil {
		return actionErr("delete locker", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Accounts handles GET /admin/accounts.
//
// @Summary      Accounts and the residents they can be linked to
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AccountsView
// @Router       /admin/accounts [get]
func (h *AdminHandler) Accounts(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var view *ports.AccountsView
	err = load(c, client, domain.ScreenAccounts, func(ctx context.Context) error {
		view, err = client.Directory().Accounts(ctx)
		return err
	})
	if err != nil {
		return actionErr("load accounts", err)
	}
	return c.JSON(http.StatusOK, view)
}

// CreateAccount handles POST /admin/accounts.
//
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  ports.AccountForm  true  "Account"
// @Success      201
// @Failure      400   {object}  errorResponse
// @Router       /admin/accounts [post]
func (h *AdminHandler) CreateAccount(c echo.Context) error {
	return h.saveAccount(c, 0, http.StatusCreated)
}

// UpdateAccount handles PATCH /admin/accounts/:id.
//
// @Summary      Edit an account
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                true  "Account id"
// @Param        body  body  ports.AccountForm  true  "Account, blank password keeps the current one"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /admin/accounts/{id} [patch]
func (h *AdminHandler) UpdateAccount(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.saveAccount(c, id, http.StatusNoContent)
}

func (h *AdminHandler) saveAccount(c echo.Context, id, status int) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var form ports.AccountForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := client.Accounts().Save(c.Request().Context(), form, id); err != nil {
		return actionErr("save account", err)
	}
	return c.NoContent(status)
}

// ToggleAccount handles POST /admin/accounts/:id/toggle.
//
// @Summary      Activate or deactivate an account
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int            true  "Account id"
// @Param        body  body  toggleRequest  true  "The flag as currently shown"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Router       /admin/accounts/{id}/toggle [post]
func (h *AdminHandler) ToggleAccount(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account := domain.Identity{ID: id, IsActive: *req.IsActive}
	if err := client.Accounts().ToggleActive(c.Request().Context(), account); err != nil {
		return actionErr("update account", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Payments handles GET /admin/payments.
//
// @Summary      Invoices of every resident
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Invoice
// @Router       /admin/payments [get]
func (h *AdminHandler) Payments(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var invoices []domain.Invoice
	err = load(c, client, domain.ScreenPayments, func(ctx context.Context) error {
		invoices, err = client.Directory().Payments(ctx)
		return err
	})
	if err != nil {
		return actionErr("load payments", err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// Complaints handles GET /admin/complaints.
//
// @Summary      Complaints, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ComplaintEntry
// @Router       /admin/complaints [get]
func (h *AdminHandler) Complaints(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var complaints []ports.ComplaintEntry
	err = load(c, client, domain.ScreenComplaints, func(ctx context.Context) error {
		complaints, err = client.Directory().Complaints(ctx)
		return err
	})
	if err != nil {
		return actionErr("load complaints", err)
	}
	return c.JSON(http.StatusOK, complaints)
}

// Surveys handles GET /admin/surveys.
//
// @Summary      Surveys, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Survey
// @Router       /admin/surveys [get]
func (h *AdminHandler) Surveys(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var surveys []domain.Survey
	err = load(c, client, domain.ScreenSurveys, func(ctx context.Context) error {
		surveys, err = client.Directory().Surveys(ctx)
		return err
	})
	if err != nil {
		return actionErr("load surveys", err)
	}
	return c.JSON(http.StatusOK, surveys)
}
