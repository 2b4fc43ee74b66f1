package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cybaemtech/licensedesk/internal/platform/validation"
	domain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

type Controller struct {
	svc domain.Service
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

func (h *Controller) RegisterV1(g *echo.Group) {
	g.GET("/settings/notifications", h.getSettings)
	g.PUT("/settings/notifications", h.putSettings)
}

type settingsReq struct {
	Offsets  []int  `json:"notification_days" validate:"required,min=1"`
	Enabled  bool   `json:"enabled"`
	NotifyAt string `json:"notification_time" validate:"required"`
	Timezone string `json:"timezone"`
}

type settingsResp struct {
	Offsets   []int  `json:"notification_days"`
	Enabled   bool   `json:"enabled"`
	NotifyAt  string `json:"notification_time"`
	Timezone  string `json:"timezone"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func toSettingsResp(c domain.Config) settingsResp {
	resp := settingsResp{
		Offsets:  c.Offsets,
		Enabled:  c.Enabled,
		NotifyAt: c.NotifyAt,
		Timezone: c.Timezone,
	}
	if !c.UpdatedAt.IsZero() {
		resp.UpdatedAt = c.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func (h *Controller) getSettings(c echo.Context) error {
	cfg, err := h.svc.ActiveConfig(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toSettingsResp(cfg))
}

func (h *Controller) putSettings(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	cfg, err := h.svc.Update(c.Request().Context(), domain.Config{
		Offsets:  req.Offsets,
		Enabled:  req.Enabled,
		NotifyAt: req.NotifyAt,
		Timezone: req.Timezone,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toSettingsResp(cfg))
}
