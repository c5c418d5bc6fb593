package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"ckmconsole/api"
	"ckmconsole/config"
	"ckmconsole/engine"
	"ckmconsole/messaging"
	"ckmconsole/session"
	"ckmconsole/store"
	"ckmconsole/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "ckmconsole.yaml", "path to config file")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("ckmconsole", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *writeConfig {
		if err := cfg.Save(*configPath); err != nil {
			log.Fatalf("write config: %v", err)
		}
		log.Printf("ckmconsole: wrote %s", *configPath)
		return
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("ckmconsole: database open (%s)", cfg.Database.Driver)

	// Backend API
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.WithQualityPath(cfg.API.QualityPath))
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	if err := client.Health(ctx); err != nil {
		log.Printf("ckmconsole: backend not available (%v), pages will show errors until it is", err)
	} else {
		log.Printf("ckmconsole: backend connected (%s)", cfg.API.BaseURL)
	}
	cancel()

	// Authentication
	issuer := session.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	var auth session.AuthBackend
	switch cfg.Auth.Backend {
	case "http":
		auth = session.NewHTTPBackend(client)
	default:
		mock, err := session.NewMockBackend(issuer, cfg.Auth.AllowUnknown)
		if err != nil {
			log.Fatalf("mock auth backend: %v", err)
		}
		auth = mock
		log.Printf("ckmconsole: using mock authentication with demo accounts")
	}

	// Redis, only when sessions live server-side
	var redisClient *redis.Client
	if cfg.Session.Storage == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis session storage unavailable: %v", err)
		}
		cancel()
		log.Printf("ckmconsole: redis connected (%s)", cfg.Redis.Address)
		defer redisClient.Close()
	}

	// Messaging client
	var msgClient *messaging.Client
	if cfg.Messaging.Enabled {
		msgClient = messaging.NewClient(&cfg.Messaging)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := msgClient.Connect(ctx)
		cancel()
		if err != nil {
			log.Printf("ckmconsole: messaging connect failed (%v)", err)
		} else {
			log.Printf("ckmconsole: messaging connected (%s)", msgClient.Transport())
		}
		defer msgClient.Close()
	}

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		API:        client,
		Auth:       auth,
		Issuer:     issuer,
		Redis:      redisClient,
		MsgClient:  msgClient,
	})
	eng.Start()
	defer eng.Stop()

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("ckmconsole: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("ckmconsole: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("ckmconsole: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ckmconsole: web server shutdown: %v", err)
	}
	log.Printf("ckmconsole: stopped")
}
