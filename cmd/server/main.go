package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/auth"
	"github.com/iliyamo/hr-admin/internal/bootstrap"
	"github.com/iliyamo/hr-admin/internal/config"
	"github.com/iliyamo/hr-admin/internal/database"
	"github.com/iliyamo/hr-admin/internal/handler"
	"github.com/iliyamo/hr-admin/internal/queue"
	"github.com/iliyamo/hr-admin/internal/repository"
	"github.com/iliyamo/hr-admin/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// A bad signing secret is a deployment mistake; stop here, not per request.
	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTDurationSec)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	blacklist := auth.NewBlacklist()

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	if err := bootstrap.Seed(ctx, cfg, users, roles); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	authenticator := auth.NewAuthenticator(users)
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		Cfg:       cfg,
		Codec:     codec,
		Blacklist: blacklist,
		Redis:     rdb,
		Auth:      handler.NewAuthHandler(authenticator, codec, blacklist, users),
		Users:     handler.NewUserHandler(cfg, users),
		Roles:     handler.NewRoleHandler(roles),
		Profile:   handler.NewProfileHandler(cfg, users),
		Proxy:     handler.NewProxyHandler(cfg.PythonAPIBaseURL, time.Duration(cfg.ProxyTimeoutSec)*time.Second),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
