package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	ndomain "github.com/cybaemtech/licensedesk/internal/notify/domain"
	nsvc "github.com/cybaemtech/licensedesk/internal/notify/service"
	rl "github.com/cybaemtech/licensedesk/internal/platform/ratelimit"
	"github.com/cybaemtech/licensedesk/internal/platform/validation"
	sdomain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

// Orchestrator is the slice of the notification service the HTTP layer needs.
type Orchestrator interface {
	RunDaily(ctx context.Context, trigger string) (ndomain.RunSummary, error)
	SendTest(ctx context.Context, to, subject, body string) error
	ActiveConfig(ctx context.Context) (sdomain.Config, error)
}

type Controller struct {
	svc     Orchestrator
	rlStore rl.Store
	now     func() time.Time
}

func New(svc Orchestrator) *Controller {
	return &Controller{svc: svc, now: time.Now}
}

// WithRateLimit injects a shared Store for distributed rate limiting.
func (h *Controller) WithRateLimit(store rl.Store) *Controller { h.rlStore = store; return h }

// WithClock overrides the wall clock, for tests.
func (h *Controller) WithClock(now func() time.Time) *Controller { h.now = now; return h }

func (h *Controller) RegisterV1(g *echo.Group) {
	runPolicy := rl.Policy{Name: "notify:run", Window: time.Minute, Limit: 6, Key: rl.KeyIP("notify:run")}
	testPolicy := rl.Policy{Name: "notify:test", Window: time.Minute, Limit: 10, Key: rl.KeyIP("notify:test")}

	var runRL, testRL echo.MiddlewareFunc
	if h.rlStore != nil {
		runRL = rl.MiddlewareWithStore(runPolicy, h.rlStore)
		testRL = rl.MiddlewareWithStore(testPolicy, h.rlStore)
	} else {
		runRL = rl.Middleware(runPolicy)
		testRL = rl.Middleware(testPolicy)
	}

	// The cron variant is invoked every few minutes by an external clock
	// and is already time-gated; no limiter on it.
	g.GET("/notifications/run", h.runNow, runRL)
	g.POST("/notifications/run", h.runNow, runRL)
	g.GET("/notifications/cron", h.runCron)
	g.POST("/notifications/cron", h.runCron)
	g.POST("/notifications/test", h.sendTest, testRL)
}

type runResp struct {
	Success          bool     `json:"success"`
	EmailsSent       int      `json:"emails_sent"`
	EmailsFailed     int      `json:"emails_failed"`
	TotalProcessed   int      `json:"total_processed"`
	NotificationDays []int    `json:"notification_days"`
	Details          []string `json:"details"`
	Timestamp        string   `json:"timestamp"`
}

func (h *Controller) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

func (h *Controller) runNow(c echo.Context) error {
	return h.run(c, "manual")
}

func (h *Controller) run(c echo.Context, trigger string) error {
	summary, err := h.svc.RunDaily(c.Request().Context(), trigger)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"message":   err.Error(),
			"timestamp": h.timestamp(),
		})
	}
	return c.JSON(http.StatusOK, runResp{
		Success:          true,
		EmailsSent:       summary.Sent,
		EmailsFailed:     summary.Failed,
		TotalProcessed:   summary.Total,
		NotificationDays: summary.Offsets,
		Details:          summary.Details,
		Timestamp:        h.timestamp(),
	})
}

// runCron only proceeds when the wall clock is inside the tolerance
// window around the configured daily time, so that a naive every-few-
// minutes cron does not re-run the cycle continuously. The orchestrator
// is idempotent either way; this gate just avoids pointless runs.
func (h *Controller) runCron(c echo.Context) error {
	cfg, err := h.svc.ActiveConfig(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"message":   err.Error(),
			"timestamp": h.timestamp(),
		})
	}
	now := h.now()
	ok, diff, err := nsvc.InWindow(cfg, now, nsvc.CronTolerance)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"message":   err.Error(),
			"timestamp": h.timestamp(),
		})
	}
	if !ok {
		loc := cfg2loc(cfg)
		return c.JSON(http.StatusOK, map[string]any{
			"success":         false,
			"message":         "Not the configured notification time",
			"configured_time": cfg.NotifyAt,
			"current_time":    now.In(loc).Format("15:04"),
			"time_difference": diff,
			"timestamp":       h.timestamp(),
		})
	}
	return h.run(c, "cron")
}

func cfg2loc(cfg sdomain.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type testEmailReq struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *Controller) sendTest(c echo.Context) error {
	var req testEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	if err := h.svc.SendTest(c.Request().Context(), req.To, req.Subject, req.Body); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "test email sent to " + req.To,
	})
}
