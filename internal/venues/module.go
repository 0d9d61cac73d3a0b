// Package venues is the venue catalog bounded context: public browsing,
// nearby ranking, user submissions, and moderation.
package venues

import (
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/internal/geoposition"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/internal/venues/handler"
	"portal_da_fe_backend/internal/venues/ranking"
	"portal_da_fe_backend/internal/venues/repository"
	"portal_da_fe_backend/internal/venues/service"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the venues bounded context.
type Module struct {
	service *service.Service
	handler *handler.Handler
	stream  *handler.StreamHandler
}

// Config bundles the settings the module reads.
type Config interface {
	config.NearbyConfig
	config.AppConfig
}

// NewModule creates the venues module with all its dependencies.
func NewModule(pool *pgxpool.Pool, hub *geoposition.Hub, eventBus events.Bus,
	log *logger.Logger, val *validator.Validator, cfg Config) *Module {
	repo := repository.New(pool)
	engine := ranking.NewEngine(cfg.GetNearbyDefaultRadiusKm())
	svc := service.New(repo, engine, hub, eventBus, log,
		cfg.GetNearbyDefaultLimit(), cfg.GetAppBaseURL())

	return &Module{
		service: svc,
		handler: handler.New(svc, val, log),
		stream:  handler.NewStreamHandler(svc, hub, val, log, cfg.GetNearbyVenueRefresh()),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "venues" }

// Service exposes the venues service for cross-module wiring.
func (m *Module) Service() *service.Service { return m.service }

// SetGeocoder wires the address geocoder.
func (m *Module) SetGeocoder(g service.Geocoder) { m.service.SetGeocoder(g) }

// SetImageStore wires the presigning image store.
func (m *Module) SetImageStore(store service.ImageStore) { m.service.SetImageStore(store) }

// SetUserReader wires the owner email lookup.
func (m *Module) SetUserReader(users service.UserReader) { m.service.SetUserReader(users) }

// RegisterRoutes mounts the venues routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/venues")
	{
		public.GET("", m.handler.List)
		public.GET("/categories", m.handler.Categories)
		public.GET("/nearby", httpkit.AuthOptional(ctx.Config), m.handler.Nearby)
		public.GET("/:id", m.handler.Get)
		public.GET("/:id/qr", m.handler.ShareQR)
	}

	protected := ctx.Protected.Group("/venues")
	{
		protected.GET("/nearby/stream", m.stream.NearbyStream)
		protected.GET("/mine", m.handler.ListMine)
		protected.POST("", m.handler.Create)
		protected.PUT("/:id", m.handler.Update)
	}

	admin := ctx.Admin.Group("/venues")
	{
		admin.GET("", m.handler.ListAll)
		admin.GET("/pending", m.handler.ListPending)
		admin.POST("/:id/approve", m.handler.Approve)
		admin.POST("/:id/reject", m.handler.Reject)
		admin.DELETE("/:id", m.handler.Delete)
	}
}
