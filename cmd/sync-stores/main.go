// Nightly job: clone visible origin products into the destination store
// with the configured markup, then propagate hiding.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/app/usecases"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
	infrahttp "github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/infra/http"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/infra/mysql"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)
	httpClient := infrahttp.NewClient(cfg.API.Timeout)

	origin := tiendanube.NewClient(cfg.API, cfg.Origin, httpClient, logger)
	dest := tiendanube.NewClient(cfg.API, cfg.Destination, httpClient, logger)
	writer, ok := dest.(tiendanube.ProductWriter)
	if !ok {
		logger.LogError("destination client is not writable", nil)
		os.Exit(1)
	}

	syncer := usecases.NewSyncProducts(origin, dest, writer, cfg.Sync, logger)

	logger.Log(fmt.Sprintf("sync started origin=%d destination=%d factor=%.2f", cfg.Origin.StoreID, cfg.Destination.StoreID, cfg.Sync.PriceFactor))
	report, err := syncer.Run(context.Background())
	if err != nil {
		logger.LogError("sync aborted", err)
		os.Exit(1)
	}

	logger.LogSuccess(report.Summary())
	saveReport(cfg, logger, report)
}

func saveReport(cfg *config.Config, logger logging.LoggerService, report *usecases.RunReport) {
	if cfg.Mysql.Host == "" {
		return
	}
	db, err := mysql.New(cfg.Mysql)
	if err != nil {
		logger.LogError("mysql connect failed", err)
		return
	}
	defer db.Close()

	store, err := mysql.NewRunStore(db)
	if err != nil {
		logger.LogError("run store init failed", err)
		return
	}
	if err := store.SaveRun(context.Background(), report); err != nil {
		logger.LogError("run report save failed", err)
	}
}
