package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

// Serve wires the services, starts the scheduler and the HTTP server and
// blocks until SIGINT or SIGTERM.
func Serve() {
	authService := newAuthService()

	MustStartScheduler(authService)
	defer StopScheduler()

	MustListenAndServeHTTP(authService)
}

func newAuthService() services.AuthService {
	jwtCfg := config.Global().JWT
	return services.NewAuthService(componentLogger("auth"), globalStorage, services.AuthConfig{
		Issuer:          jwtCfg.Issuer,
		SigningKey:      []byte(jwtCfg.SigningKey),
		AccessTokenTTL:  jwtCfg.AccessTokenTTL,
		RefreshTokenTTL: jwtCfg.RefreshTokenTTL,
	})
}

func MustListenAndServeHTTP(authService services.AuthService) {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(v1.RequestLogger(componentLogger("http")))
	router.Use(gin.Recovery())
	registerRoutes(router, authService)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter, authService services.AuthService) {
	v1Handler := v1.New(
		componentLogger("v1"),
		globalLocation,
		authService,
		services.NewUserService(componentLogger("users"), globalStorage),
		services.NewCategoryService(componentLogger("categories"), globalStorage),
		services.NewTaskService(componentLogger("tasks"), globalStorage, globalLocation),
	)
	v1.RegisterRoutes(router, v1Handler)
}
