package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/Astemirdum/library-lending/lending/internal/handler"
	"github.com/Astemirdum/library-lending/lending/internal/notify"
	"github.com/Astemirdum/library-lending/lending/internal/provider"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/lending/internal/server"
	"github.com/Astemirdum/library-lending/lending/internal/service"
	"github.com/Astemirdum/library-lending/lending/migrations"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/Astemirdum/library-lending/pkg/redis"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "lending")
	lendingPolicy, err := cfg.Policy.Build()
	if err != nil {
		return errors.Wrap(err, "policy")
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var repo repository.Repository
	if cfg.InMemory {
		log.Warn("running on the in-memory repository, state is lost on exit")
		repo = repository.NewMemoryRepository(log)
	} else {
		db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return errors.Wrap(err, "db init")
		}
		closers = append(closers, db.Close)
		pgRepo, err := repository.NewRepository(db, log)
		if err != nil {
			return errors.Wrap(err, "repo")
		}
		repo = pgRepo
	}

	var accounts service.AccountProvider = provider.StaticAccounts{}
	if cfg.Account.Enabled() {
		accounts = provider.NewAccountService(log, cfg.Account)
	}
	var pricing service.PricingProvider = provider.StoredPrice{}
	if cfg.Pricing.Enabled() {
		pricing = provider.NewPricingService(log, cfg.Pricing)
	}

	var pub kafka.Publisher = notify.NewLogPublisher(log)
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return errors.Wrap(err, "kafka.NewProducer")
		}
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				log.Error("producer.Close", zap.Error(err))
			}
		})
		pub = kafka.NewPublisher(producer)
	}
	var dedup notify.Deduper = notify.NewMemoryDeduper()
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			return errors.Wrap(err, "redis")
		}
		closers = append(closers, func() {
			if err := rdb.Close(); err != nil {
				log.Error("redis.Close", zap.Error(err))
			}
		})
		dedup = notify.NewRedisDeduper(rdb)
	}
	dispatcher := notify.NewDispatcher(pub, dedup, log)
	go dispatcher.Run(context.Background())

	svc := service.NewService(repo, accounts, pricing, dispatcher, lendingPolicy, log,
		service.WithOpTimeout(cfg.OpTimeout))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.LendingConsumerGroup)
		if err != nil {
			return errors.Wrap(err, "kafka.NewConsumer")
		}
		g.Go(func() error {
			kafka.Consume(gCtx, consumer, handler.NewConsumer(svc, log), log, kafka.CatalogTopic)
			return consumer.Close()
		})
	}
	g.Go(func() error {
		sweep(gCtx, svc, cfg.SweepInterval, log)
		return nil
	})

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
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

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	stop()
	if err = g.Wait(); err != nil {
		log.Error("background workers", zap.Error(err))
	}
	if err = dispatcher.Close(closeCtx); err != nil {
		log.Error("dispatcher.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// sweep marks overdue loans and sends due-soon reminders every interval.
func sweep(ctx context.Context, svc *service.Service, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		log.Info("overdue sweep disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := svc.MarkOverdue(ctx)
			if err != nil {
				log.Error("svc.MarkOverdue", zap.Error(err))
				continue
			}
			log.Info("overdue sweep", zap.Int("overdue", res.Overdue), zap.Int("reminders", res.Reminders))
		}
	}
}
