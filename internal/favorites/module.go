package favorites

import (
	apphttp "portal_da_fe_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the favorites bounded context.
type Module struct {
	handler *Handler
}

// NewModule creates the favorites module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepo(pool))}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "favorites" }

// RegisterRoutes mounts the favorites routes. All routes require auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/favorites")
	{
		group.GET("", m.handler.List)
		group.GET("/ids", m.handler.ListIDs)
		group.POST("/:venueId", m.handler.Toggle)
	}
}

var _ apphttp.Module = (*Module)(nil)
