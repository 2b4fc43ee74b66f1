package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	domain "github.com/cybaemtech/licensedesk/internal/clients/domain"
	"github.com/cybaemtech/licensedesk/internal/platform/validation"
)

type Controller struct {
	svc domain.Service
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

func (h *Controller) RegisterV1(g *echo.Group) {
	g.POST("/clients", h.createClient)
	g.GET("/clients", h.listClients)
	g.GET("/clients/:id", h.getClient)
	g.PUT("/clients/:id", h.updateClient)
	g.PATCH("/clients/:id/deactivate", h.deactivateClient)
}

type createClientReq struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
}

type updateClientReq struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	IsActive    *bool  `json:"is_active"`
}

type clientResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func toClientResp(c domain.Client) clientResp {
	return clientResp{
		ID:          c.ID.String(),
		Name:        c.Name,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Controller) createClient(c echo.Context) error {
	var req createClientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	cl, err := h.svc.Create(c.Request().Context(), req.Name, req.ContactName, req.Email, req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toClientResp(cl))
}

func (h *Controller) getClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	cl, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toClientResp(cl))
}

func (h *Controller) updateClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var req updateClientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cl, err := h.svc.Update(c.Request().Context(), domain.Client{
		ID:          id,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsActive:    active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toClientResp(cl))
}

func (h *Controller) deactivateClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Controller) listClients(c echo.Context) error {
	opts := domain.ListOptions{Query: c.QueryParam("q"), Active: -1}
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
	items := make([]clientResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, toClientResp(it))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":       items,
		"total":       res.Total,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}
