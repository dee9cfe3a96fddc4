package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"certledger/internal/assistant"
	"certledger/internal/audit"
	authhandler "certledger/internal/auth/handler"
	authmetrics "certledger/internal/auth/metrics"
	authservice "certledger/internal/auth/service"
	authstore "certledger/internal/auth/store"
	insthandler "certledger/internal/institution/handler"
	instmetrics "certledger/internal/institution/metrics"
	instservice "certledger/internal/institution/service"
	inststore "certledger/internal/institution/store"
	jwttoken "certledger/internal/jwt_token"
	"certledger/internal/ledger"
	"certledger/internal/platform/config"
	"certledger/internal/platform/httpserver"
	"certledger/internal/platform/logger"
	platformredis "certledger/internal/platform/redis"
	httptransport "certledger/internal/transport/http"
	verifhandler "certledger/internal/verification/handler"
	verifmetrics "certledger/internal/verification/metrics"
	verifservice "certledger/internal/verification/service"
	verifstore "certledger/internal/verification/store"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		verifications verifstore.VerificationLogStore
		questions     verifstore.QuestionLogStore
	)
	switch {
	case db != nil:
		verifications = verifstore.NewPostgresVerificationLog(db)
		questions = verifstore.NewPostgresQuestionLog(db)
	case redisClient != nil:
		verifications = verifstore.NewRedisVerificationLog(redisClient.Client)
		questions = verifstore.NewRedisQuestionLog(redisClient.Client)
	default:
		verifications = verifstore.NewInMemoryVerificationLog()
		questions = verifstore.NewInMemoryQuestionLog()
	}

	var institutions inststore.Store
	switch {
	case db != nil:
		institutions = inststore.NewPostgresStore(db)
	case cfg.InstitutionsPath != "" && cfg.PendingPath != "":
		fileStore, err := inststore.OpenFileStore(cfg.InstitutionsPath, cfg.PendingPath)
		if err != nil {
			log.Error("institution file store init failed", "error", err)
			os.Exit(1)
		}
		institutions = fileStore
	default:
		institutions = inststore.NewMemoryStore()
	}

	var users authstore.UserStore
	if db != nil {
		users = authstore.NewPostgresUserStore(db)
	} else {
		users = authstore.NewMemoryUserStore()
	}

	var auditStore audit.Store
	if db != nil {
		auditStore = audit.NewPostgresStore(db)
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	auditPublisher := audit.NewPublisher(auditStore, log, audit.WithAsyncBuffer(256))
	defer auditPublisher.Close()

	ledgerClient := ledger.NewEthClient(cfg.Ledger)
	answerer := assistant.NewOpenAIClient(cfg.Assistant)

	verifSvc := verifservice.New(ledgerClient, answerer, verifications, questions, log, verifmetrics.New())
	instSvc := instservice.New(institutions, log, instmetrics.New(), auditPublisher)
	authSvc := authservice.New(
		users,
		instSvc,
		jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer),
		cfg.TokenTTL,
		log,
		authmetrics.New(),
		auditPublisher,
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Verification: verifhandler.New(verifSvc, log),
		Institution:  insthandler.New(instSvc, log),
		Auth:         authhandler.New(authSvc, log),
		Ledger:       ledgerClient,
		AdminToken:   cfg.AdminToken,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting certledger", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("certledger stopped")
}
