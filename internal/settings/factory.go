package settings

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/cybaemtech/licensedesk/internal/config"
	ctrl "github.com/cybaemtech/licensedesk/internal/settings/controller"
	repo "github.com/cybaemtech/licensedesk/internal/settings/repository"
	svc "github.com/cybaemtech/licensedesk/internal/settings/service"
)

// NewService builds the settings service for other modules (the notification
// engine reads the active configuration through it).
func NewService(pg *pgxpool.Pool, cfg config.Config) *svc.Service {
	return svc.New(repo.New(pg), cfg.Timezone)
}

// Register wires the settings module and registers HTTP routes under the group.
func Register(g *echo.Group, pg *pgxpool.Pool, cfg config.Config) *svc.Service {
	s := NewService(pg, cfg)
	ctrl.New(s).RegisterV1(g)
	return s
}
