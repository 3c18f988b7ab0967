package main

import (
	"context"
	"crypto/tls"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"actividad-api/api"
	"actividad-api/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	logger := newLogger()
	instance := uuid.NewString()

	base := storage.New()
	var store api.Storage = base
	var deduper api.Deduper

	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		rc := redis.NewClient(parseRedisOptions(redisConn))
		cacheTTL := envDuration(logger, "CACHE_TTL", 30*time.Second)
		dedupeTTL := envDuration(logger, "DEDUPER_TTL", 24*time.Hour)
		store = storage.NewCache(base, rc, cacheTTL, "actividad:"+instance)
		deduper = api.NewRedisDeduper(rc, dedupeTTL, "actividad:"+instance)
		logger.Infof("redis enabled, cache ttl: %v, dedupe ttl: %v", cacheTTL, dedupeTTL)
	}

	var events api.EventSink
	connStr := os.Getenv("STORAGE_CONNECTION_STRING")
	eventsQueue := os.Getenv("EVENTS_QUEUE")
	if connStr != "" && eventsQueue != "" {
		queue, err := storage.NewEventQueue(connStr, eventsQueue)
		if err != nil {
			logger.Fatalf("event queue: %v", err)
		}
		if create, err := strconv.ParseBool(os.Getenv("EVENTS_QUEUE_CREATE")); err == nil && create {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := queue.Ensure(ctx)
			cancel()
			if err != nil {
				logger.Fatalf("create event queue: %v", err)
			}
			logger.Infof("event queue %s ready", eventsQueue)
		}
		sender := api.NewEventSender(queue, logger, api.EventSenderConfigFromEnv())
		defer sender.Close()
		events = sender
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, api.IdempotencyHeader},
	}))
	e.Use(echoprometheus.NewMiddleware("actividad_api"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, store, deduper, events, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	if err := e.Start(listenAddr); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}

func newLogger() *log.Logger {
	logger := log.New()
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		logger.SetLevel(log.DebugLevel)
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	if path := os.Getenv("LOG_FILE"); path != "" {
		logger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}))
	}
	return logger
}

func envDuration(logger *log.Logger, name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		logger.Fatalf("invalid %s: %q", name, v)
	}
	return d
}

// parseRedisOptions accepts a redis:// URL or an "host:port,password=...,ssl=true" string.
func parseRedisOptions(conn string) *redis.Options {
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
