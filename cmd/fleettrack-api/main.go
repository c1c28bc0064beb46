// README: Entry point; loads config, runs migrations, wires services, starts HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleettrack/internal/cache"
	"fleettrack/internal/config"
	"fleettrack/internal/events"
	httptransport "fleettrack/internal/http"
	"fleettrack/internal/infra"
	"fleettrack/internal/modules/gps"
	"fleettrack/internal/modules/stats"
	"fleettrack/internal/modules/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.Migrate(cfg.DB.DSN, cfg.DB.MigrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	listCache := cache.New(redisClient)

	publisher, err := infra.ConnectRabbitMQ(cfg.AMQP.URL, events.Exchange)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer publisher.Close()

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore, listCache, publisher)

	gpsStore := gps.NewStore(dbPool)
	gpsSvc := gps.NewService(gpsStore, tripSvc, listCache, publisher)

	statsStore := stats.NewStore(dbPool)
	statsSvc := stats.NewService(statsStore)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(tripSvc, gpsSvc, statsSvc),
	}

	go func() {
		log.Printf("listening on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
