package clients

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	ctrl "github.com/cybaemtech/licensedesk/internal/clients/controller"
	repo "github.com/cybaemtech/licensedesk/internal/clients/repository"
	svc "github.com/cybaemtech/licensedesk/internal/clients/service"
)

// Register wires the clients module and registers HTTP routes under the group.
func Register(g *echo.Group, pg *pgxpool.Pool) {
	r := repo.New(pg)
	s := svc.New(r)
	ctrl.New(s).RegisterV1(g)
}
