package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"aura/pkg/server"
	"aura/pkg/session"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	var addr, dbPath, redisAddr string
	flag.StringVar(&addr, "addr", envOr("AURA_ADDR", "127.0.0.1:8000"), "listen address")
	flag.StringVar(&dbPath, "db", envOr("AURA_DB", "aura.db"), "sqlite database path")
	flag.StringVar(&redisAddr, "redis", envOr("AURA_REDIS_ADDR", "localhost:6379"), "redis address for sessions")
	flag.Parse()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalw("redis unreachable", "addr", redisAddr, "error", err)
	}

	db, err := server.OpenDB(dbPath)
	if err != nil {
		logger.Fatalw("cannot open database", "path", dbPath, "error", err)
	}
	defer db.Close()

	sm := session.NewSessionManagerRedis(rdb)
	handler := server.NewHandler(logger, sm, db)

	srv := &http.Server{
		Handler:      handler,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	logger.Infof("started aura dev server at %s", addr)
	log.Fatal(srv.ListenAndServe())
}
