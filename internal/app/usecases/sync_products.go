package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube/dto"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

const (
	categoryMappingNames    = "names"
	unknownVisibilityIgnore = "ignore"
)

type SyncProductsService interface {
	Run(ctx context.Context) (*RunReport, error)
}

type SyncProducts struct {
	origin  tiendanube.CatalogService
	dest    tiendanube.CatalogService
	writer  tiendanube.ProductWriter
	cfg     config.SyncConfig
	logger  logging.LoggerService
	limiter *rate.Limiter
}

func NewSyncProducts(origin, dest tiendanube.CatalogService, writer tiendanube.ProductWriter, cfg config.SyncConfig, logger logging.LoggerService) SyncProductsService {
	limit := rate.Inf
	if cfg.Pacing > 0 {
		limit = rate.Every(cfg.Pacing)
	}
	return &SyncProducts{
		origin:  origin,
		dest:    dest,
		writer:  writer,
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run executes one full reconciliation: upsert pass over visible origin
// products, then hide pass over the rest. Both catalogs are fetched
// completely up front; a failed fetch is the only fatal condition.
func (s *SyncProducts) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}

	s.logger.Log("fetching origin catalog...")
	originProducts, err := s.origin.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch origin catalog: %w", err)
	}

	s.logger.Log("fetching destination catalog...")
	destProducts, err := s.dest.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch destination catalog: %w", err)
	}

	mapper := categoryMapper(passthroughCategories{})
	if s.cfg.CategoryMapping == categoryMappingNames {
		destCategories, err := s.dest.ListAllCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch destination categories: %w", err)
		}
		mapper = newNamedCategories(destCategories)
	}
	builder := newPayloadBuilder(s.cfg, mapper)

	index, collisions := buildIndex(destProducts, s.cfg.DefaultLanguage, s.logger)

	visible, hidden := partitionByVisibility(originProducts, s.cfg.UnknownVisibility)
	report.OriginTotal = len(originProducts)
	report.OriginVisible = len(visible)
	report.OriginHidden = len(hidden)
	report.DestinationTotal = len(destProducts)
	report.KeyCollisions = collisions
	s.logger.Log(fmt.Sprintf("origin: %d products, %d visible; destination: %d products", report.OriginTotal, report.OriginVisible, report.DestinationTotal))

	if err := s.upsertPass(ctx, visible, index, builder, report); err != nil {
		return report, err
	}
	if err := s.hidePass(ctx, hidden, index, builder, report); err != nil {
		return report, err
	}

	report.FinishedAt = time.Now()
	return report, nil
}

func (s *SyncProducts) upsertPass(ctx context.Context, visible []model.Product, index map[string]model.Product, builder *payloadBuilder, report *RunReport) error {
	for _, src := range visible {
		key := productKey(src, s.cfg.DefaultLanguage)
		if key == "" {
			s.logger.LogWarning(fmt.Sprintf("[SKIP] origin product %d has no SKU and no name", src.ID))
			report.Skipped++
			continue
		}

		dst, matched := index[key]
		if matched && hasExcludedCategory(dst, s.cfg.ExcludedCategory) {
			s.logger.Log(fmt.Sprintf("[SKIP] excluded category key=%s", key))
			report.Excluded++
			continue
		}

		payload := builder.full(src)

		var err error
		if matched {
			if s.inSync(dst, payload) {
				s.logger.Log(fmt.Sprintf("[SKIP] in sync key=%s", key))
				report.Unchanged++
				continue
			}
			s.logger.Log(fmt.Sprintf("[UPDATE] key=%s id=%d", key, dst.ID))
			err = s.apply(ctx, key, payload, func(p dto.ProductPayload) error {
				return s.writer.UpdateProduct(ctx, dst.ID, p)
			})
		} else {
			s.logger.Log(fmt.Sprintf("[CREATE] key=%s", key))
			err = s.apply(ctx, key, payload, func(p dto.ProductPayload) error {
				return s.writer.CreateProduct(ctx, p)
			})
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.LogError(fmt.Sprintf("sync failed key=%s", key), err)
			report.Failed++
			continue
		}
		if matched {
			report.Updated++
		} else {
			report.Created++
		}
	}
	return nil
}

// hidePass unpublishes previously-matched destination products whose
// origin counterpart is no longer visible. An unmatched hidden origin
// product is skipped unconditionally: the engine must never materialize
// a destination product just to hide it.
func (s *SyncProducts) hidePass(ctx context.Context, hidden []model.Product, index map[string]model.Product, builder *payloadBuilder, report *RunReport) error {
	for _, src := range hidden {
		key := productKey(src, s.cfg.DefaultLanguage)
		if key == "" {
			continue
		}

		dst, matched := index[key]
		if !matched {
			continue
		}
		if hasExcludedCategory(dst, s.cfg.ExcludedCategory) {
			s.logger.Log(fmt.Sprintf("[SKIP] excluded category key=%s", key))
			report.Excluded++
			continue
		}
		if s.cfg.ManagedTag != "" && !hasTag(dst.Tags, s.cfg.ManagedTag) {
			continue
		}
		if dst.Visibility != model.VisibilityVisible {
			continue
		}

		s.logger.Log(fmt.Sprintf("[HIDE] key=%s id=%d", key, dst.ID))
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.writer.UpdateProduct(ctx, dst.ID, builder.hidden()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.LogError(fmt.Sprintf("hide failed key=%s", key), err)
			report.Failed++
			continue
		}
		report.Hidden++
	}
	return nil
}

// apply issues one paced mutation, retrying a 422 exactly once with the
// degraded payload before giving up on the product for this run.
func (s *SyncProducts) apply(ctx context.Context, key string, payload dto.ProductPayload, op func(dto.ProductPayload) error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	err := op(payload)

	var apiErr *tiendanube.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
		s.logger.LogWarning(fmt.Sprintf("[422] retrying with simplified variants key=%s", key))
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		err = op(degradedPayload(payload))
	}
	return err
}

// inSync reports whether the destination snapshot already matches the
// desired payload, making the update a no-op worth skipping. Images are
// not compared: the platform re-hosts them, so source URLs never match.
func (s *SyncProducts) inSync(dst model.Product, payload dto.ProductPayload) bool {
	if payload.Published == nil || *payload.Published != (dst.Visibility == model.VisibilityVisible) {
		return false
	}
	if !localizedEqual(dst.Name, payload.Name) || !localizedEqual(dst.Description, payload.Description) {
		return false
	}
	if !idSetEqual(destCategoryIDs(dst), payload.Categories) {
		return false
	}
	if !stringSetEqual(tagSet(dst.Tags), tagSet(payload.Tags)) {
		return false
	}

	if len(dst.Variants) != len(payload.Variants) {
		return false
	}
	for i, v := range payload.Variants {
		dv := dst.Variants[i]
		if dv.SKU != v.SKU || !dv.Price.Equal(v.Price) {
			return false
		}
		if !decimalPtrEqual(dv.PromotionalPrice, v.PromotionalPrice) {
			return false
		}
		if !intPtrEqual(dv.Stock, v.Stock) {
			return false
		}
		if !decimalPtrEqual(dv.Weight, v.Weight) {
			return false
		}
		if len(dv.Values) != len(v.Values) {
			return false
		}
		for j, val := range v.Values {
			if !localizedEqual(dv.Values[j], val) {
				return false
			}
		}
	}
	return true
}

func partitionByVisibility(products []model.Product, unknownPolicy string) (visible, hidden []model.Product) {
	for _, p := range products {
		switch p.Visibility {
		case model.VisibilityVisible:
			visible = append(visible, p)
		case model.VisibilityHidden:
			hidden = append(hidden, p)
		case model.VisibilityUnknown:
			if unknownPolicy != unknownVisibilityIgnore {
				hidden = append(hidden, p)
			}
		}
	}
	return visible, hidden
}

func destCategoryIDs(p model.Product) []int64 {
	return passthroughCategories{}.ids(p.Categories)
}

func localizedEqual(a model.Localized, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

func idSetEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func stringSetEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range b {
		if !a[k] {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
