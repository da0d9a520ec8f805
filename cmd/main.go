package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/magnification/jobtrack/internal/api"
	"github.com/magnification/jobtrack/internal/clients/jobspy"
	"github.com/magnification/jobtrack/internal/config"
	"github.com/magnification/jobtrack/internal/events"
	"github.com/magnification/jobtrack/internal/logger"
	"github.com/magnification/jobtrack/internal/metrics"
	"github.com/magnification/jobtrack/internal/repositories"
	"github.com/magnification/jobtrack/internal/services"
	log "github.com/sirupsen/logrus"
)

func runScheduler(cfg *config.Config, workflow *services.Workflow,
	configs *repositories.SearchConfigs) *services.ScrapeScheduler {

	if cfg.Scraper.Schedule == "" {
		log.Info("scheduled scraping disabled")
		return nil
	}

	scheduler, err := services.NewScrapeScheduler(workflow, configs, cfg.Scraper.Schedule)
	if err != nil {
		log.Fatalf("can't create scrape scheduler: %v", err)
	}
	return scheduler
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	data := repositories.NewDataRepository(dbContext.DB)
	configs := repositories.NewSearchConfigsRepository(data)

	providerClient := jobspy.NewClient(cfg.Scraper.ProviderURL)
	providerClient.SetRateLimit(cfg.Scraper.ProviderMaxRequestsPerSecond)
	retriever := services.NewJobSpyRetriever(providerClient)

	bus := EventBus.New()
	err = bus.Subscribe(events.RunCompletedTopic, func(event events.RunCompleted) {
		if event.Failed {
			log.Warnf("run %v failed: %v", event.RunID, event.Reason)
			return
		}
		log.Infof("run %v completed: %v stored, %v ignored, %v duplicates",
			event.RunID, event.Stored, event.Ignored, event.Duplicates)
	})
	if err != nil {
		log.Fatalf("can't subscribe to run events: %v", err)
	}

	workflow := services.NewWorkflow(bus, retriever, jobs, cfg.Scraper.Workers, cfg.Scraper.RunTimeout)

	scheduler := runScheduler(cfg, workflow, configs)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	server := api.NewServer(cfg.Server.Port, workflow, configs, jobs)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}
