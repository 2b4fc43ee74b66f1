package sales

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	ctrl "github.com/cybaemtech/licensedesk/internal/sales/controller"
	repo "github.com/cybaemtech/licensedesk/internal/sales/repository"
	svc "github.com/cybaemtech/licensedesk/internal/sales/service"
)

// Register wires the sales module and registers HTTP routes under the group.
func Register(g *echo.Group, pg *pgxpool.Pool) {
	r := repo.New(pg)
	s := svc.New(r)
	ctrl.New(s).RegisterV1(g)
}
