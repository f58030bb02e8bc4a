package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hopenest/hopenest-api/internal/config"
	"github.com/hopenest/hopenest-api/internal/database"
	"github.com/hopenest/hopenest-api/internal/handler"
	"github.com/hopenest/hopenest-api/internal/logger"
	"github.com/hopenest/hopenest-api/internal/middleware"
	"github.com/hopenest/hopenest-api/internal/queue"
	"github.com/hopenest/hopenest-api/internal/repository"
	"github.com/hopenest/hopenest-api/internal/router"
	queue_publisher "github.com/hopenest/hopenest-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	defer db.Close()
	log.Info().Str("db", cfg.DBName).Msg("MySQL connected")

	users := repository.NewUserRepo(db)
	orphanages := repository.NewOrphanageRepo(db)
	donations := repository.NewDonationRepo(db)

	// Redis is optional; without it the limiter and cache become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, rate limiting and response caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewBrowseCache(config.LoadCacheConfig(), rdb)

	// Background consumer for donation.recorded events. It maintains its own
	// reconnect loop, so a missing broker only costs log noise.
	go func() {
		if err := queue.StartDonationConsumer(log); err != nil {
			log.Error().Err(err).Msg("donation consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(log))

	auth := handler.NewAuthHandler(users, orphanages, log)
	orphanageHandler := handler.NewOrphanageHandler(orphanages, log)
	donationHandler := handler.NewDonationHandler(donations, queue_publisher.PublishDonationRecorded, log)
	userHandler := handler.NewUserHandler(users, log)

	router.RegisterRoutes(e)
	router.RegisterAPI(e, auth, orphanageHandler, donationHandler, userHandler, limiter, cache)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
