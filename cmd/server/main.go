package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/hasher"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/server/logger"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"github.com/abezemskiy/todokeeper/internal/server/router"
	"github.com/abezemskiy/todokeeper/internal/server/storage"
	"github.com/abezemskiy/todokeeper/internal/server/storage/inmemory"
	"github.com/abezemskiy/todokeeper/internal/server/storage/pg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownWaitPeriod = 20 * time.Second // для установки в контекст для реализации graceful shutdown
	readHeaderTimeout  = 5 * time.Second
)

func main() {
	err := parseVariables()
	if err != nil {
		log.Fatalf("failed to set global variables, %v", err)
	}

	// Инициализация логера
	if err := logger.Initialize(logLevel); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stor, closeStor, err := newStorage(ctx, databaseDsn)
	if err != nil {
		logger.ServerLog.Fatal("failed to create storage", zap.Error(err))
	}
	defer closeStor()

	if err := run(ctx, stor); err != nil {
		logger.ServerLog.Error("server stopped with error", zap.Error(err))
	}
}

// newStorage - создает хранилище pg, если задан адрес базы данных, иначе хранилище в памяти.
func newStorage(ctx context.Context, dsn string) (storage.IServerStorage, func(), error) {
	if dsn == "" {
		logger.ServerLog.Info("database dsn is not set, using in-memory storage")
		return inmemory.NewStore(), func() {}, nil
	}
	stor, err := pg.NewStore(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return stor, func() {
		if err := stor.Close(); err != nil {
			logger.ServerLog.Error("failed to close storage", zap.Error(err))
		}
	}, nil
}

// run - инициализирует зависимости сервера и обслуживает запросы до отмены контекста.
func run(ctx context.Context, stor storage.IServerStorage) error {
	if err := stor.Bootstrap(ctx); err != nil {
		return err
	}

	hasher.SetCost(bcryptCost)
	if err := metrics.Register(nil); err != nil {
		return err
	}
	codec := token.NewCodec(secretKey, expireToken)

	logger.ServerLog.Info("Running todokeeper", zap.String("address", netAddr))

	srv := &http.Server{
		Addr:              netAddr,
		Handler:           router.New(stor, codec, nil),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	// запускаю сам сервис
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// останавливаю сервер при отмене контекста
	g.Go(func() error {
		<-gctx.Done()
		logger.ServerLog.Info("Shutting down server...", zap.String("address", netAddr))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitPeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.ServerLog.Info("Shutdown the server gracefully", zap.String("address", netAddr))
		return nil
	})

	return g.Wait()
}
