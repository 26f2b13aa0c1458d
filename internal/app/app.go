package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/controller"
	"github.com/hrstack/onboarding-service/internal/infrastructure/tracing"
	appmw "github.com/hrstack/onboarding-service/internal/middleware"
	"github.com/hrstack/onboarding-service/internal/repository"
	"github.com/hrstack/onboarding-service/internal/service"
	"github.com/hrstack/onboarding-service/pkg/response"
)

type App struct {
	DB            *sqlx.DB
	Config        *config.Config
	KafkaProducer *kafka.Conn
	Server        *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if traceProvider == nil {
			return
		}
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	if traceProvider != nil {
		tracer := traceProvider.Tracer("onboarding-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				// span creation and naming
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				// add the context to the request
				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(appmw.Logger)

	g := e.Group("/api/v1")

	userRepo := repository.CreateNewUserRepository(app.DB)
	sessionRepo := repository.CreateNewSessionRepository(app.DB)
	templateRepo := repository.CreateNewTemplateRepository(app.DB)
	approvalRepo := repository.CreateNewApprovalRepository(app.DB)

	authSvc := service.CreateNewAuthService(userRepo, sessionRepo, *app.Config, app.KafkaProducer)
	userSvc := service.CreateNewUserService(userRepo, sessionRepo, *app.Config)
	templateSvc := service.CreateNewTemplateService(templateRepo, *app.Config)
	approvalSvc := service.CreateNewApprovalService(approvalRepo, templateRepo, userRepo, *app.Config, app.KafkaProducer)

	protected := e.Group("/api/v1", appmw.Authenticate(authSvc))

	controller.CreateAuthController(g, protected, authSvc)
	controller.CreateUserController(protected, userSvc)
	controller.CreateTemplateController(protected, templateSvc)
	controller.CreateApprovalController(protected, approvalSvc)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	app.Server = e

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
