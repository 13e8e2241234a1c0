package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/hazelwood-labs/chatgate/internal/config"
	"github.com/hazelwood-labs/chatgate/internal/infrastructure/gateway"
	"github.com/hazelwood-labs/chatgate/internal/present/rest"
	"github.com/hazelwood-labs/chatgate/internal/present/rest/middleware"
	"github.com/hazelwood-labs/chatgate/internal/service"
	"github.com/hazelwood-labs/chatgate/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if conf.EnableTrace {
		shutdown, err := setupTracer(conf.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	identityGw, err := gateway.NewIdentityGateway(conf.Identity)
	if err != nil {
		slog.Error("failed to initialize identity gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}
	messagingGw, err := gateway.NewMessagingGateway(conf.Messaging)
	if err != nil {
		slog.Error("failed to initialize messaging gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authService := service.NewAuthService(identityGw)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	handler := rest.NewHandler(
		usecase.NewUserUsecase(identityGw, messagingGw),
		usecase.NewConversationUsecase(messagingGw),
		usecase.NewTokenUsecase(identityGw, messagingGw),
	)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = rest.ErrorHandler

	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		MaxAge:       86400,
	}))
	if conf.EnableTrace {
		e.Use(otelecho.Middleware("chatgate"))
	}

	handler.RegisterRoutes(e, authMiddleware)

	e.Logger.Fatal(e.Start(conf.ListenAddr))
}

func setupTracer(endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "chatgate"),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
