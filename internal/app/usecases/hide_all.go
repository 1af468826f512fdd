package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

type HideAllService interface {
	Run(ctx context.Context) (*RunReport, error)
}

// HideAll is the maintenance job that unpublishes every managed
// destination product. It never deletes anything, and excluded-category
// products stay untouched like in a regular run.
type HideAll struct {
	dest    tiendanube.CatalogService
	writer  tiendanube.ProductWriter
	cfg     config.SyncConfig
	logger  logging.LoggerService
	limiter *rate.Limiter
}

func NewHideAll(dest tiendanube.CatalogService, writer tiendanube.ProductWriter, cfg config.SyncConfig, logger logging.LoggerService) HideAllService {
	limit := rate.Inf
	if cfg.Pacing > 0 {
		limit = rate.Every(cfg.Pacing)
	}
	return &HideAll{
		dest:    dest,
		writer:  writer,
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (h *HideAll) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}
	builder := newPayloadBuilder(h.cfg, passthroughCategories{})

	h.logger.Log("fetching destination catalog...")
	products, err := h.dest.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch destination catalog: %w", err)
	}
	report.DestinationTotal = len(products)

	for _, p := range products {
		key := productKey(p, h.cfg.DefaultLanguage)
		if hasExcludedCategory(p, h.cfg.ExcludedCategory) {
			h.logger.Log(fmt.Sprintf("[SKIP] excluded category key=%s", key))
			report.Excluded++
			continue
		}
		if h.cfg.ManagedTag != "" && !hasTag(p.Tags, h.cfg.ManagedTag) {
			report.Skipped++
			continue
		}
		if p.Visibility != model.VisibilityVisible {
			report.Unchanged++
			continue
		}

		h.logger.Log(fmt.Sprintf("[HIDE] key=%s id=%d", key, p.ID))
		if err := h.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if err := h.writer.UpdateProduct(ctx, p.ID, builder.hidden()); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			h.logger.LogError(fmt.Sprintf("hide failed key=%s", key), err)
			report.Failed++
			continue
		}
		report.Hidden++
	}

	report.FinishedAt = time.Now()
	return report, nil
}
