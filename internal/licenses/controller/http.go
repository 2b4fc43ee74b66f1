package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	domain "github.com/cybaemtech/licensedesk/internal/licenses/domain"
	"github.com/cybaemtech/licensedesk/internal/platform/validation"
)

type Controller struct {
	svc domain.Service
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

func (h *Controller) RegisterV1(g *echo.Group) {
	g.POST("/licenses", h.createLicense)
	g.GET("/licenses", h.listLicenses)
	g.GET("/licenses/:id", h.getLicense)
	g.PUT("/licenses/:id", h.updateLicense)
	g.PATCH("/licenses/:id/deactivate", h.deactivateLicense)
}

type licenseReq struct {
	ClientID   string  `json:"client_id" validate:"required,uuid"`
	VendorID   *string `json:"vendor_id" validate:"omitempty,uuid"`
	ToolName   string  `json:"tool_name" validate:"required"`
	LicenseKey string  `json:"license_key"`
	Seats      *int    `json:"seats" validate:"omitempty,gt=0"`
	ExpiresAt  *string `json:"expires_at"` // YYYY-MM-DD, omitted for perpetual
	IsActive   *bool   `json:"is_active"`
}

type licenseResp struct {
	ID         string  `json:"id"`
	ClientID   string  `json:"client_id"`
	VendorID   string  `json:"vendor_id,omitempty"`
	ToolName   string  `json:"tool_name"`
	LicenseKey string  `json:"license_key,omitempty"`
	Seats      *int    `json:"seats,omitempty"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
	IsActive   bool    `json:"is_active"`
	Expired    bool    `json:"expired"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

func toLicenseResp(l domain.License) licenseResp {
	resp := licenseResp{
		ID:         l.ID.String(),
		ClientID:   l.ClientID.String(),
		ToolName:   l.ToolName,
		LicenseKey: l.LicenseKey,
		Seats:      l.Seats,
		IsActive:   l.IsActive,
		Expired:    l.Expired(time.Now()),
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.VendorID != nil {
		resp.VendorID = l.VendorID.String()
	}
	if l.ExpiresAt != nil {
		resp.ExpiresAt = l.ExpiresAt.Format("2006-01-02")
	}
	return resp
}

func fromLicenseReq(req licenseReq) (domain.License, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return domain.License{}, errors.New("invalid client_id")
	}
	l := domain.License{
		ClientID:   clientID,
		ToolName:   req.ToolName,
		LicenseKey: req.LicenseKey,
		Seats:      req.Seats,
		IsActive:   true,
	}
	if req.VendorID != nil && *req.VendorID != "" {
		vid, err := uuid.Parse(*req.VendorID)
		if err != nil {
			return domain.License{}, errors.New("invalid vendor_id")
		}
		l.VendorID = &vid
	}
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		t, err := time.Parse("2006-01-02", *req.ExpiresAt)
		if err != nil {
			return domain.License{}, errors.New("invalid expires_at, want YYYY-MM-DD")
		}
		l.ExpiresAt = &t
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	return l, nil
}

func (h *Controller) createLicense(c echo.Context) error {
	var req licenseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	l, err := fromLicenseReq(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	created, err := h.svc.Create(c.Request().Context(), l)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toLicenseResp(created))
}

func (h *Controller) getLicense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	l, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "license not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toLicenseResp(l))
}

func (h *Controller) updateLicense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var req licenseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	l, err := fromLicenseReq(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	l.ID = id
	updated, err := h.svc.Update(c.Request().Context(), l)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "license not found"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toLicenseResp(updated))
}

func (h *Controller) deactivateLicense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "license not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Controller) listLicenses(c echo.Context) error {
	opts := domain.ListOptions{Active: -1}
	if v := c.QueryParam("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client_id"})
		}
		opts.ClientID = &id
	}
	if v := c.QueryParam("vendor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid vendor_id"})
		}
		opts.VendorID = &id
	}
	switch c.QueryParam("active") {
	case "true":
		opts.Active = 1
	case "false":
		opts.Active = 0
	}
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		opts.PageSize = ps
	}
	res, err := h.svc.List(c.Request().Context(), opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	items := make([]licenseResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, toLicenseResp(it))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":       items,
		"total":       res.Total,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}
