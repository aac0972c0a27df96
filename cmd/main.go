package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	tracker "portfolio_tracker_back"
	"portfolio_tracker_back/internal/config"
	"portfolio_tracker_back/pkg/balance"
	"portfolio_tracker_back/pkg/cache"
	"portfolio_tracker_back/pkg/chain"
	"portfolio_tracker_back/pkg/coingecko"
	"portfolio_tracker_back/pkg/handler"
	"portfolio_tracker_back/pkg/repository"
	"portfolio_tracker_back/pkg/service"
	"portfolio_tracker_back/pkg/session"
	"portfolio_tracker_back/pkg/solclient"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load("configs")
	if err != nil {
		logrus.Fatalf("load config: %s", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, err := repository.NewPostgresDB(cfg.DB)
	if err != nil {
		logrus.Fatalf("init database: %s", err)
	}
	defer db.Close()
	if err := repository.RunMigrations(cfg.DB.URL(), cfg.MigrationsPath); err != nil {
		logrus.Fatalf("migrate database: %s", err)
	}
	logrus.Info("database ready")

	rdb, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Fatalf("init redis: %s", err)
	}
	defer rdb.Close()

	var marketCache cache.Cache = cache.NewRedisCache(rdb, "cache:")
	if cfg.CacheBackend == config.CacheMemory {
		marketCache = cache.NewMemoryCache()
	}

	eth, err := ethclient.Dial(cfg.EthereumRPC)
	if err != nil {
		logrus.Fatalf("dial ethereum rpc: %s", err)
	}
	defer eth.Close()

	ethFetcher, err := chain.NewEthereumFetcher(eth, chain.EthereumTokens)
	if err != nil {
		logrus.Fatalf("init ethereum fetcher: %s", err)
	}
	solFetcher := chain.NewSolanaFetcher(solclient.NewClient(cfg.SolanaRPC))

	aggregator := balance.NewAggregator(chain.NewRegistry(ethFetcher, solFetcher), cfg.Retry)
	repos := repository.NewRepository(db)
	services := service.NewService(repos, aggregator, coingecko.NewClient(cfg.CoinGecko), marketCache)
	handlers := handler.NewHandler(services, session.NewRedisStore(rdb, cfg.SessionTTL), handler.Config{
		AllowOrigins: cfg.CORSOrigins,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
	})

	srv := new(tracker.Server)
	go func() {
		if err := srv.Run(cfg.Port, handlers.InitRoute()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("run http server: %s", err)
		}
	}()
	logrus.WithField("port", cfg.Port).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logrus.WithField("signal", sig.String()).Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("shutdown http server: %s", err)
	}
}
