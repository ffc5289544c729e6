package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/export"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/core/view"
)

// UserHandler serves the users table and its CRUD actions.
type UserHandler struct {
	users ports.UserService
	dash  ports.DashboardService
	now   func() time.Time
}

func NewUserHandler(users ports.UserService, dash ports.DashboardService) *UserHandler {
	return &UserHandler{users: users, dash: dash, now: time.Now}
}

// List returns the admin's current table window. The q and status query
// parameters replace the filter; page moves within the filtered view.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Name or email substring"
// @Param        status  query     string  false  "premium, free or expired"
// @Param        page    query     int     false  "Page number"
// @Success      200     {object}  view.Page
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}

	frame := h.dash.Frame(admin.ID, true)
	if c.QueryParams().Has("q") || c.QueryParams().Has("status") {
		f := view.Filter{Query: c.QueryParam("q"), Status: view.StatusFilter(c.QueryParam("status"))}
		if frame, err = h.dash.SetFilter(admin.ID, f); err != nil {
			return err
		}
	}
	if p := c.QueryParam("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a number")
		}
		frame, _ = h.dash.GoToPage(admin.ID, page)
	}

	return c.JSON(http.StatusOK, frame.Table)
}

// Create adds a user from the add-user form.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateUserInput  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req ports.CreateUserInput
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), admin.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Get returns one user from the mirror.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies the edit-user form.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                 true  "User id"
// @Param        body  body  ports.UpdateUserInput  true  "Changes"
// @Success      202
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req ports.UpdateUserInput
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if err := h.users.Update(c.Request().Context(), admin.ID, c.Param("id"), req); err != nil {
		return err
	}
	// The table changes once the store notification arrives.
	return c.NoContent(http.StatusAccepted)
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      202
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// Export downloads the admin's filtered view as CSV.
//
// @Summary      Export users as CSV
// @Tags         users
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {file}  file
// @Router       /admin/users/export [get]
func (h *UserHandler) Export(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	rows, err := h.dash.Export(admin.ID, &buf)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename(h.now())+`"`)
	c.Response().Header().Set("X-Export-Rows", strconv.Itoa(rows))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
