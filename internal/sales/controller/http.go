package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cybaemtech/licensedesk/internal/platform/validation"
	domain "github.com/cybaemtech/licensedesk/internal/sales/domain"
)

type Controller struct {
	svc domain.Service
}

func New(svc domain.Service) *Controller {
	return &Controller{svc: svc}
}

func (h *Controller) RegisterV1(g *echo.Group) {
	g.POST("/sales", h.createSale)
	g.GET("/sales", h.listSales)
	g.GET("/sales/:id", h.getSale)
	g.GET("/clients/:id/sales", h.listClientSales)
}

type createSaleReq struct {
	ClientID  string  `json:"client_id" validate:"required,uuid"`
	LicenseID string  `json:"license_id" validate:"required,uuid"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	SoldAt    string  `json:"sold_at"` // YYYY-MM-DD, defaults to today
	Notes     string  `json:"notes"`
}

type saleResp struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"client_id"`
	LicenseID string  `json:"license_id"`
	Amount    float64 `json:"amount"`
	SoldAt    string  `json:"sold_at"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func toSaleResp(s domain.Sale) saleResp {
	return saleResp{
		ID:        s.ID.String(),
		ClientID:  s.ClientID.String(),
		LicenseID: s.LicenseID.String(),
		Amount:    s.Amount,
		SoldAt:    s.SoldAt.Format("2006-01-02"),
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Controller) createSale(c echo.Context) error {
	var req createSaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid client_id"})
	}
	licenseID, err := uuid.Parse(req.LicenseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid license_id"})
	}
	sale := domain.Sale{
		ClientID:  clientID,
		LicenseID: licenseID,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}
	if req.SoldAt != "" {
		t, err := time.Parse("2006-01-02", req.SoldAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid sold_at, want YYYY-MM-DD"})
		}
		sale.SoldAt = t
	}
	created, err := h.svc.Create(c.Request().Context(), sale)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toSaleResp(created))
}

func (h *Controller) getSale(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	s, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "sale not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toSaleResp(s))
}

func (h *Controller) listClientSales(c echo.Context) error {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	items, err := h.svc.ListByClient(c.Request().Context(), clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	resp := make([]saleResp, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSaleResp(s))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": resp, "total": len(resp)})
}

func (h *Controller) listSales(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	items, total, err := h.svc.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	resp := make([]saleResp, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSaleResp(s))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": resp, "total": total})
}
