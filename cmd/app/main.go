package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"goose_server/internal/config"
	"goose_server/internal/db"
	"goose_server/internal/game"
	httpServer "goose_server/internal/http"
	"goose_server/internal/http/handlers"
	"goose_server/internal/http/middleware"
	"goose_server/internal/logger"
	"goose_server/internal/realtime"
	"goose_server/internal/repository"
	"goose_server/internal/service"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") == "json")

	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	userRepo := repository.NewUserRepository(dbPool)
	gameRepo := repository.NewGameRepository(dbPool)
	friendRepo := repository.NewFriendRequestRepository(dbPool)

	engine := game.NewEngine(cfg.BotUserID, cfg.BotMoveDelay, gameRepo)
	registry := realtime.NewRegistry()
	presence := realtime.NewPresence(userRepo)
	queue := realtime.NewQueue(presence)
	lobbies := realtime.NewLobbies()
	router := realtime.NewRouter(registry, presence, queue, lobbies, engine, friendRepo)
	wsHandler := realtime.NewHandler(registry, presence, router)

	r := gin.Default()

	// CORS for browser clients on a different origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(dbPool, engine, presence)
	httpServer.RegisterRoutes(r, dbPool, cfg, version, h, wsHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "bot_id", cfg.BotUserID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
