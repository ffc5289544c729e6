package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

// SectionHandler serves the analytics, content and system sections and the
// premium package, backup and settings actions.
type SectionHandler struct {
	sections ports.SectionService
}

func NewSectionHandler(sections ports.SectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

type backupRequest struct {
	Type string `json:"type" validate:"omitempty,oneof=full database"`
}

// Get loads one section, or all of them for "all".
//
// @Summary      Load dashboard section
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "analytics, content, system or all"
// @Success      200   {object}  ports.Sections
// @Failure      404   {object}  map[string]string
// @Router       /admin/sections/{name} [get]
func (h *SectionHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	switch c.Param("name") {
	case string(domain.SectionAnalytics):
		return c.JSON(http.StatusOK, h.sections.Analytics(ctx))
	case string(domain.SectionContent):
		return c.JSON(http.StatusOK, h.sections.Content(ctx))
	case string(domain.SectionSystem):
		return c.JSON(http.StatusOK, h.sections.System(ctx))
	case "all":
		return c.JSON(http.StatusOK, h.sections.All(ctx))
	}
	return domain.ErrUnknownSection
}

// AddPackage creates an active premium package.
//
// @Summary      Add premium package
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.PackageInput  true  "Package"
// @Success      201   {object}  domain.PremiumPackage
// @Failure      422   {object}  map[string]string
// @Router       /admin/packages [post]
func (h *SectionHandler) AddPackage(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req ports.PackageInput
	if err := bindValid(c, &req); err != nil {
		return err
	}

	pkg, err := h.sections.AddPackage(c.Request().Context(), admin.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pkg)
}

// CreateBackup records a backup request.
//
// @Summary      Request backup
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      backupRequest  false  "Backup type"
// @Success      202   {object}  domain.Backup
// @Router       /admin/backups [post]
func (h *SectionHandler) CreateBackup(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	var req backupRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	b, err := h.sections.CreateBackup(c.Request().Context(), admin.ID, req.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, b)
}

// SaveSettings stamps the settings record with the saving admin.
//
// @Summary      Save settings
// @Tags         sections
// @Security     BearerAuth
// @Success      204
// @Router       /admin/settings [put]
func (h *SectionHandler) SaveSettings(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	if err := h.sections.SaveSettings(c.Request().Context(), admin.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
