package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logWarn("Failed to load .env: %v", err)
	}

	app := newAppFromEnv()
	logInfo("Starting Bloxpace in %s mode", app.envName())
	if app.RandomSeed != 0 {
		logInfo("Deterministic games enabled, base seed %d", app.RandomSeed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.startSessionSweeper(ctx)

	app.startServer(app.setupRouter())
}

// newAppFromEnv builds the App from environment variables.
func newAppFromEnv() *App {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &App{
		IsProduction:   os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		Port:           port,
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		SweepInterval:  getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		RandomSeed:     getEnvUint64("RANDOM_SEED", 0),
		Sessions:       make(map[string]*Session),
		LimiterMap:     make(map[string]*limiterEntry),
		StartTime:      time.Now(),
	}
}

func (app *App) envName() string {
	if app.IsProduction {
		return "production"
	}
	return "development"
}

// setupRouter wires middleware, templates and every route.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{RouteWebSocket})))
	router.Use(app.applyCacheHeaders)

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.SetFuncMap(template.FuncMap{
		"slotLabel": func(slot int) int { return slot + 1 },
	})
	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	limited := app.rateLimitMiddleware()

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.POST(RouteSelect, limited, app.formCommandHandler(CommandSelect))
	router.POST(RouteCancel, limited, app.formCommandHandler(CommandCancel))
	router.POST(RoutePlace, limited, app.formCommandHandler(CommandPlace))
	router.POST(RouteNewGame, limited, app.formCommandHandler(CommandRestart))

	api := router.Group(RouteAPI)
	api.GET("/state", app.apiStateHandler)
	api.POST("/select", limited, app.apiCommandHandler(CommandSelect))
	api.POST("/cancel", limited, app.apiCommandHandler(CommandCancel))
	api.POST("/place", limited, app.apiCommandHandler(CommandPlace))
	api.POST("/restart", limited, app.apiCommandHandler(CommandRestart))

	router.GET(RouteWebSocket, app.webSocketHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

// startServer serves until SIGINT/SIGTERM, then shuts down gracefully.
func (app *App) startServer(router *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + app.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

// applyCacheHeaders lets static assets be cached in production and marks
// everything else, game state included, as uncacheable.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}
