package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

// DashboardHandler serves the per-admin dashboard state over plain HTTP.
// The websocket hub offers the same commands with pushed updates.
type DashboardHandler struct {
	dash ports.DashboardService
}

func NewDashboardHandler(dash ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

type pageRequest struct {
	Page  int `json:"page"`
	Delta int `json:"delta"`
}

type pageResponse struct {
	view.Frame
	Moved bool `json:"moved"`
}

type sectionRequest struct {
	Section string `json:"section"`
	Code    string `json:"code"`
	Alt     bool   `json:"alt"`
	Ctrl    bool   `json:"ctrl"`
	Shift   bool   `json:"shift"`
}

// Frame returns the admin's current dashboard.
//
// @Summary      Current dashboard frame
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  view.Frame
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Frame(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dash.Frame(admin.ID, false))
}

// Filter replaces the table filter and returns to page one.
//
// @Summary      Set table filter
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      view.Filter  true  "Filter"
// @Success      200   {object}  view.Frame
// @Failure      400   {object}  map[string]string
// @Router       /admin/dashboard/filter [post]
func (h *DashboardHandler) Filter(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var f view.Filter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	frame, err := h.dash.SetFilter(admin.ID, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, frame)
}

// Page moves to an absolute page, or by delta when delta is non-zero.
// Out-of-range moves leave the page unchanged.
//
// @Summary      Change table page
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      pageRequest  true  "Page or delta"
// @Success      200   {object}  pageResponse
// @Router       /admin/dashboard/page [post]
func (h *DashboardHandler) Page(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var resp pageResponse
	if req.Delta != 0 {
		resp.Frame, resp.Moved = h.dash.ChangePage(admin.ID, req.Delta)
	} else {
		resp.Frame, resp.Moved = h.dash.GoToPage(admin.ID, req.Page)
	}
	return c.JSON(http.StatusOK, resp)
}

// Section shows a section by name, or by keyboard shortcut when code is set.
//
// @Summary      Show section
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sectionRequest  true  "Section name or shortcut"
// @Success      200   {object}  view.Frame
// @Failure      404   {object}  map[string]string
// @Router       /admin/dashboard/section [post]
func (h *DashboardHandler) Section(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if req.Code != "" {
		frame, _ := h.dash.Shortcut(admin.ID, req.Code, req.Alt, req.Ctrl, req.Shift)
		return c.JSON(http.StatusOK, frame)
	}
	sec, err := domain.ParseSection(req.Section)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dash.ShowSection(admin.ID, sec))
}

// Stats returns the summary over the whole mirror.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stats.Summary
// @Router       /admin/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dash.Stats())
}

// Report generates one of the on-demand reports.
//
// @Summary      Generate report
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "revenue, engagement or financial"
// @Success      200   {object}  stats.Report
// @Failure      404   {object}  map[string]string
// @Router       /admin/reports/{kind} [get]
func (h *DashboardHandler) Report(c echo.Context) error {
	report, err := h.dash.Report(stats.ReportKind(c.Param("kind")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
