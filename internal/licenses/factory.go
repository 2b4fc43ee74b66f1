package licenses

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	ctrl "github.com/cybaemtech/licensedesk/internal/licenses/controller"
	repo "github.com/cybaemtech/licensedesk/internal/licenses/repository"
	svc "github.com/cybaemtech/licensedesk/internal/licenses/service"
)

// Register wires the licenses module and registers HTTP routes under the group.
func Register(g *echo.Group, pg *pgxpool.Pool) {
	r := repo.New(pg)
	s := svc.New(r)
	ctrl.New(s).RegisterV1(g)
}
