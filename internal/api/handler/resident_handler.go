package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// ResidentHandler serves the screens about the logged-in user.
type ResidentHandler struct{}

func NewResidentHandler() *ResidentHandler {
	return &ResidentHandler{}
}

// Invoices handles GET /me/invoices.
//
// @Summary      My invoices
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Invoice
// @Failure      502  {object}  errorResponse
// @Router       /me/invoices [get]
func (h *ResidentHandler) Invoices(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var invoices []domain.Invoice
	err = load(c, client, domain.ScreenMyInvoices, func(ctx context.Context) error {
		invoices, err = client.Residents().MyInvoices(ctx)
		return err
	})
	if err != nil {
		return actionErr("load invoices", err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// Locker handles GET /me/locker.
//
// @Summary      My locker
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.LockerDetail
// @Failure      404  {object}  errorResponse
// @Router       /me/locker [get]
func (h *ResidentHandler) Locker(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var detail *ports.LockerDetail
	err = load(c, client, domain.ScreenMyLockers, func(ctx context.Context) error {
		detail, err = client.Residents().MyLocker(ctx)
		return err
	})
	if err != nil {
		return actionErr("load locker", err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Complain handles POST /me/complaints.
//
// @Summary      Send feedback
// @Tags         me
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  complaintRequest  true  "Feedback"
// @Success      201
// @Failure      400   {object}  errorResponse
// @Router       /me/complaints [post]
func (h *ResidentHandler) Complain(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var req complaintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := client.Residents().SubmitComplaint(c.Request().Context(), req.Description); err != nil {
		return actionErr("send feedback", err)
	}
	return c.NoContent(http.StatusCreated)
}

// Profile handles PATCH /me/profile. The avatar part is optional.
//
// @Summary      Change password and avatar
// @Tags         me
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        password  formData  string  true   "New password"
// @Param        confirm   formData  string  true   "New password again"
// @Param        avatar    formData  file    false  "Picture"
// @Success      200       {object}  domain.Identity
// @Failure      400       {object}  errorResponse
// @Router       /me/profile [patch]
func (h *ResidentHandler) Profile(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}

	form := ports.ProfileForm{
		Password: c.FormValue("password"),
		Confirm:  c.FormValue("confirm"),
	}
	fh, err := c.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar")
	default:
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar")
		}
		defer f.Close()
		form.Avatar = &ports.Avatar{Filename: fh.Filename, Content: f}
	}

	id, err := client.Accounts().ChangePasswordAndAvatar(c.Request().Context(), form)
	if err != nil {
		return actionErr("update profile", err)
	}
	return c.JSON(http.StatusOK, id)
}
