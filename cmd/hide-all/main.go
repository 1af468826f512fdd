// Maintenance job: unpublish every managed destination product.
// Products in the excluded category are left alone. Nothing is deleted.
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

	dest := tiendanube.NewClient(cfg.API, cfg.Destination, httpClient, logger)
	writer, ok := dest.(tiendanube.ProductWriter)
	if !ok {
		logger.LogError("destination client is not writable", nil)
		os.Exit(1)
	}

	job := usecases.NewHideAll(dest, writer, cfg.Sync, logger)

	logger.Log(fmt.Sprintf("hide-all started destination=%d", cfg.Destination.StoreID))
	report, err := job.Run(context.Background())
	if err != nil {
		logger.LogError("hide-all aborted", err)
		os.Exit(1)
	}

	logger.LogSuccess(fmt.Sprintf("hide-all completed: hidden=%d excluded=%d skipped=%d failed=%d", report.Hidden, report.Excluded, report.Skipped, report.Failed))
}
