package components

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/handler"
	"vehicle-reservation/internal/handler/api"
	"vehicle-reservation/internal/handler/middleware"
	"vehicle-reservation/internal/infra/metrics"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/usecase/tokens"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewReservationHandler,
		api.NewVehicleHandler,
		func(s *tokens.Service) middleware.TokenVerifier { return s },
		middleware.NewAuthMiddleware,
		NewRateLimiter,
		func() *gin.Engine {
			return gin.New()
		},
	),
	fx.Invoke(registerRoutes),
)

func NewRateLimiter(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.RateLimit, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			limiter.Stop()
			return nil
		},
	})
	return limiter
}

type routeParams struct {
	fx.In

	Engine        *gin.Engine
	Config        config.Config
	Logger        *slog.Logger
	RequestLogger *middleware.Logger
	Auth          *api.AuthHandler
	Reservation   *api.ReservationHandler
	Vehicle       *api.VehicleHandler
	AuthMw        *middleware.AuthMiddleware
	RateLimit     *middleware.RateLimiter
	Registry      *prometheus.Registry
}

func registerRoutes(p routeParams) {
	handler.NewRouter(p.Engine, p.Config, p.Logger,
		handler.Handlers{
			Auth:        p.Auth,
			Reservation: p.Reservation,
			Vehicle:     p.Vehicle,
			Metrics:     metrics.Handler(p.Registry),
		},
		handler.Middlewares{
			Auth:      p.AuthMw,
			RateLimit: p.RateLimit,
			Logger:    p.RequestLogger,
		},
	)
}
