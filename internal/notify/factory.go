package notify

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/cybaemtech/licensedesk/internal/config"
	emailsvc "github.com/cybaemtech/licensedesk/internal/email/service"
	evsvc "github.com/cybaemtech/licensedesk/internal/events/service"
	"github.com/cybaemtech/licensedesk/internal/logger"
	ctrl "github.com/cybaemtech/licensedesk/internal/notify/controller"
	repo "github.com/cybaemtech/licensedesk/internal/notify/repository"
	svc "github.com/cybaemtech/licensedesk/internal/notify/service"
	rl "github.com/cybaemtech/licensedesk/internal/platform/ratelimit"
)

// Register wires the notification engine and registers HTTP routes under
// the group. The settings source is shared with the settings module so
// that both read the same active configuration.
func Register(g *echo.Group, pg *pgxpool.Pool, cfg config.Config, settings svc.SettingsSource, rlStore rl.Store) *svc.Service {
	log := logger.New(cfg.AppEnv)

	r := repo.New(pg)
	sender := emailsvc.NewSender(cfg, log)

	s := svc.New(settings, r, r, sender)
	s.SetLogger(log)
	s.SetPublisher(evsvc.NewLogger())

	c := ctrl.New(s)
	if rlStore != nil {
		c = c.WithRateLimit(rlStore)
	}
	c.RegisterV1(g)
	return s
}
