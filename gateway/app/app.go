package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/config"
	"github.com/Astemirdum/bookshelf/gateway/internal/events"
	"github.com/Astemirdum/bookshelf/gateway/internal/handler"
	"github.com/Astemirdum/bookshelf/gateway/internal/server"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/identity"
	"github.com/Astemirdum/bookshelf/gateway/internal/service/library"
	"github.com/Astemirdum/bookshelf/gateway/internal/session"
	"github.com/Astemirdum/bookshelf/pkg/auth0"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
	"github.com/Astemirdum/bookshelf/pkg/logger"
)

type publisher interface {
	handler.EventPublisher
	Close() error
}

func Run(cfg config.Config) {
	log := logger.NewLogger(cfg.Log, "gateway")
	defer log.Sync() //nolint:errcheck

	verifier, err := auth0.NewVerifier(cfg.Auth0)
	if err != nil {
		log.Fatal("auth0 verifier", zap.Error(err))
	}
	if !cfg.Auth0.Enable {
		log.Warn("token signatures are not verified")
	}

	var pub publisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewAsyncProducer(cfg.Kafka)
		if err != nil {
			log.Error("kafka producer, events disabled", zap.Error(err))
		} else {
			pub = events.NewPublisher(log, producer, cfg.Kafka.Topic)
		}
	}

	catalogSvc := library.NewService(log, cfg.CatalogAPI)
	identitySvc := identity.NewService(log, cfg.IdentityAPI, verifier)
	sessions := session.NewStore(log, identitySvc, cfg.Session.TTL)
	sessions.Start()

	h := handler.New(log, handler.Services{
		Catalog: catalogSvc,
		CatalogFor: func(src library.CredentialSource) handler.CatalogService {
			return catalogSvc.WithCredentials(src)
		},
		Identity: identitySvc,
		Sessions: sessions,
		Events:   pub,
	}, cfg.Catalog.PageSize, cfg.Server.RPS)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ", zap.String("addr", srv.Addr()))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	// signing everyone out closes their coordinators before the producer goes away
	sessions.Stop()
	if err := pub.Close(); err != nil {
		log.Warn("close event publisher", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
