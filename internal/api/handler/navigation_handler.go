package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// NavigationHandler exposes the navigator of the caller's context.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Get handles GET /navigation.
//
// @Summary      Navigation tree and position
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  navigationResponse
// @Router       /navigation [get]
func (h *NavigationHandler) Get(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	nav := client.Navigation()
	return c.JSON(http.StatusOK, navigationResponse{Tree: nav.Tree(), Position: nav.Position()})
}

// Navigate handles POST /navigation/navigate.
//
// @Summary      Navigate to a screen
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      navigateRequest  true  "Target tab and screen"
// @Success      200   {object}  navigationResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /navigation/navigate [post]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	nav := client.Navigation()
	if err := nav.Navigate(req.Tab, req.Screen); err != nil {
		return actionErr("open "+req.Screen, err)
	}
	return c.JSON(http.StatusOK, navigationResponse{Tree: nav.Tree(), Position: nav.Position()})
}

// Back handles POST /navigation/back.
//
// @Summary      Go back one screen
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  backResponse
// @Router       /navigation/back [post]
func (h *NavigationHandler) Back(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	nav := client.Navigation()
	moved := nav.Back()
	return c.JSON(http.StatusOK, backResponse{Moved: moved, Position: nav.Position()})
}

// TabBar handles GET /navigation/tabbar.
//
// @Summary      Tab bar visibility
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tabBarResponse
// @Router       /navigation/tabbar [get]
func (h *NavigationHandler) TabBar(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tabBarResponse{Visible: client.Navigation().TabBarVisible()})
}
