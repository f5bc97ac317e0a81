package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/itreb/portal/internal/config"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/infra/database"
	"github.com/itreb/portal/internal/infra/repository"
	"github.com/itreb/portal/internal/infra/storage"
	"github.com/itreb/portal/internal/present/rest"
	"github.com/itreb/portal/internal/present/rest/middleware"
	"github.com/itreb/portal/internal/service"
	"github.com/itreb/portal/internal/usecase"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	configPath := os.Getenv("PORTAL_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	conf, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf)
		if err != nil {
			slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePostgres(db)
	if err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	store, err := storage.NewLocalStore(conf.Server.StoragePath, conf.Server.StorageURL)
	if err != nil {
		slog.Error("Failed to prepare storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	domainConf := domain.Config{
		FQDN:          conf.Site.FQDN,
		JWTSecret:     conf.Auth.JWTSecret,
		TokenDuration: conf.Auth.TokenDuration,
	}

	profileRepo := repository.NewProfileRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	authService := service.NewAuthService(domainConf, profileRepo)
	signalService := service.NewSignalService(rdb)
	listingCache := service.NewListingCache(mc, 300)

	applicationUC := usecase.NewApplicationUsecase(applicationRepo, opportunityRepo, store, signalService)
	opportunityUC := usecase.NewOpportunityUsecase(opportunityRepo)
	eventUC := usecase.NewEventUsecase(eventRepo)
	todoUC := usecase.NewTodoUsecase(todoRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo)

	handler := rest.NewHandler(
		applicationUC,
		opportunityUC,
		eventUC,
		todoUC,
		profileUC,
		authService,
		signalService,
		listingCache,
	)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.Site.FQDN))
	}

	e.Static("/files", store.Root())

	handler.RegisterRoutes(e, middleware.NewAuthMiddleware(authService, domainConf))

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupTraceProvider(conf config.Config) (func(), error) {
	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(conf.Server.TraceEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("portal"),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() {
		err := tp.Shutdown(context.Background())
		if err != nil {
			slog.Error("Failed to shut down trace provider", slog.String("error", err.Error()))
		}
	}, nil
}
