package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	todobackend "github.com/vimalpatra/todo-backend"
	"github.com/vimalpatra/todo-backend/httpapi"
	"github.com/vimalpatra/todo-backend/metrics/export/prometheus"
	"github.com/vimalpatra/todo-backend/tasks"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	engineCfg := todobackend.DefaultConfig()
	engineCfg.JWT.Secret = []byte(cfg.Auth.Secret)
	engineCfg.JWT.Issuer = cfg.Auth.Issuer
	engineCfg.JWT.AccessTTL = cfg.Auth.AccessTTL
	engineCfg.Session.RefreshTTL = cfg.Auth.RefreshTTL
	engineCfg.Store.KeyPrefix = cfg.Auth.KeyPrefix
	engineCfg.Abuse.Window = cfg.Auth.AbuseWindow
	engineCfg.Abuse.Threshold = cfg.Auth.AbuseMaxCount

	builder := todobackend.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithMetricsEnabled(cfg.Observability.Metrics).
		WithLatencyHistograms(cfg.Observability.Latency)
	if cfg.Observability.AuditLogs {
		builder = builder.WithAuditSink(todobackend.NewJSONWriterSink(os.Stdout))
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	repo := tasks.NewRepository(engine.Documents())
	api := httpapi.NewServer(engine, repo)

	opts := httpapi.Options{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Observability.Metrics {
		opts.MetricsHandler = prometheus.NewPrometheusExporter(engine).Handler()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
