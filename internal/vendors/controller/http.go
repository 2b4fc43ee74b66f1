package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cybaemtech/licensedesk/internal/platform/validation"
	domain "github.com/cybaemtech/licensedesk/internal/vendors/domain"
)

type Controller struct {
	svc domain.Service
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

func (h *Controller) RegisterV1(g *echo.Group) {
	g.POST("/vendors", h.createVendor)
	g.GET("/vendors", h.listVendors)
	g.GET("/vendors/:id", h.getVendor)
	g.PATCH("/vendors/:id/deactivate", h.deactivateVendor)
}

type createVendorReq struct {
	Name         string `json:"name" validate:"required"`
	Website      string `json:"website"`
	SupportEmail string `json:"support_email" validate:"omitempty,email"`
}

type vendorResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
	SupportEmail string `json:"support_email,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func toVendorResp(v domain.Vendor) vendorResp {
	return vendorResp{
		ID:           v.ID.String(),
		Name:         v.Name,
		Website:      v.Website,
		SupportEmail: v.SupportEmail,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Controller) createVendor(c echo.Context) error {
	var req createVendorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	v, err := h.svc.Create(c.Request().Context(), req.Name, req.Website, req.SupportEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toVendorResp(v))
}

func (h *Controller) getVendor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	v, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "vendor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toVendorResp(v))
}

func (h *Controller) deactivateVendor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "vendor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Controller) listVendors(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	resp := make([]vendorResp, 0, len(items))
	for _, v := range items {
		resp = append(resp, toVendorResp(v))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": resp, "total": len(resp)})
}
