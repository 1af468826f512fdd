package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube/dto"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
)

type mockCatalog struct {
	products      []model.Product
	categories    []model.Category
	productsErr   error
	categoriesErr error
}

func (m *mockCatalog) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	return m.products, m.productsErr
}

func (m *mockCatalog) ListAllCategories(ctx context.Context) ([]model.Category, error) {
	return m.categories, m.categoriesErr
}

type updateCall struct {
	id      int64
	payload dto.ProductPayload
}

type mockWriter struct {
	createCalls []dto.ProductPayload
	updateCalls []updateCall
	createErrs  []error
	updateErrs  []error
}

func (m *mockWriter) CreateProduct(ctx context.Context, payload dto.ProductPayload) error {
	m.createCalls = append(m.createCalls, payload)
	return popErr(&m.createErrs)
}

func (m *mockWriter) UpdateProduct(ctx context.Context, productID int64, payload dto.ProductPayload) error {
	m.updateCalls = append(m.updateCalls, updateCall{id: productID, payload: payload})
	return popErr(&m.updateErrs)
}

func popErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func originProduct(id int64, sku string, visibility model.Visibility) model.Product {
	return model.Product{
		ID:         id,
		Name:       model.Localized{"es": "Producto " + sku},
		Visibility: visibility,
		Attributes: []model.Localized{{"es": "Talle"}},
		Categories: []model.Category{{ID: 7, Name: model.Localized{"es": "Remeras"}}},
		Variants: []model.Variant{
			{
				SKU:              sku,
				Price:            decimal.NewFromInt(1000),
				PromotionalPrice: decPtr(800),
				Values:           []model.Localized{{"es": "M"}},
			},
		},
	}
}

// syncedDestination builds the destination snapshot the engine itself
// would have produced for originProduct(sku) on a previous run.
func syncedDestination(id int64, sku string) model.Product {
	return model.Product{
		ID:         id,
		Name:       model.Localized{"es": "Producto " + sku},
		Visibility: model.VisibilityVisible,
		Attributes: []model.Localized{{"es": "Talle"}},
		Categories: []model.Category{{ID: 7, Name: model.Localized{"es": "Remeras"}}},
		Variants: []model.Variant{
			{
				SKU:              sku,
				Price:            decimal.NewFromInt(1280),
				PromotionalPrice: decPtr(1024),
				Values:           []model.Localized{{"es": "M"}},
			},
		},
	}
}

func runSync(t *testing.T, origin, dest *mockCatalog, writer *mockWriter) (*RunReport, error) {
	t.Helper()
	syncer := NewSyncProducts(origin, dest, writer, syncConfig(), &testLogger{})
	return syncer.Run(context.Background())
}

func TestRunCreatesNewVisibleProduct(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityVisible)}}
	dest := &mockCatalog{}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	require.Len(t, writer.createCalls, 1)
	assert.Empty(t, writer.updateCalls)
	assert.Equal(t, 1, report.Created)

	payload := writer.createCalls[0]
	require.NotNil(t, payload.Published)
	assert.True(t, *payload.Published)
	require.Len(t, payload.Variants, 1)
	assert.True(t, decimal.NewFromInt(1280).Equal(payload.Variants[0].Price))
	require.NotNil(t, payload.Variants[0].PromotionalPrice)
	assert.True(t, decimal.NewFromInt(1024).Equal(*payload.Variants[0].PromotionalPrice))
}

func TestRunUpdatesMatchedProduct(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityVisible)}}
	stale := syncedDestination(55, "ABC")
	stale.Variants[0].Price = decimal.NewFromInt(999) // old markup
	dest := &mockCatalog{products: []model.Product{stale}}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Empty(t, writer.createCalls)
	require.Len(t, writer.updateCalls, 1)
	assert.Equal(t, int64(55), writer.updateCalls[0].id)
	assert.Equal(t, 1, report.Updated)
}

func TestRunUpdatesWhenOnlyWeightChanges(t *testing.T) {
	src := originProduct(1, "ABC", model.VisibilityVisible)
	newWeight := decimal.NewFromFloat(2.5)
	src.Variants[0].Weight = &newWeight

	dst := syncedDestination(55, "ABC")
	oldWeight := decimal.NewFromInt(1)
	dst.Variants[0].Weight = &oldWeight

	origin := &mockCatalog{products: []model.Product{src}}
	dest := &mockCatalog{products: []model.Product{dst}}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	require.Len(t, writer.updateCalls, 1)
	assert.Equal(t, int64(55), writer.updateCalls[0].id)
	require.NotNil(t, writer.updateCalls[0].payload.Variants[0].Weight)
	assert.True(t, newWeight.Equal(*writer.updateCalls[0].payload.Variants[0].Weight))
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Unchanged)
}

func TestRunIsIdempotent(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityVisible)}}
	dest := &mockCatalog{products: []model.Product{syncedDestination(55, "ABC")}}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Empty(t, writer.createCalls)
	assert.Empty(t, writer.updateCalls)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 0, report.Created+report.Updated+report.Hidden+report.Failed)
}

func TestRunNeverTouchesExcludedProducts(t *testing.T) {
	excluded := syncedDestination(55, "XYZ")
	excluded.Categories = append(excluded.Categories, model.Category{ID: 9, Name: model.Localized{"es": "Capsula Jacula ✿"}})

	t.Run("upsert pass", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{originProduct(1, "XYZ", model.VisibilityVisible)}}
		dest := &mockCatalog{products: []model.Product{excluded}}
		writer := &mockWriter{}

		report, err := runSync(t, origin, dest, writer)

		require.NoError(t, err)
		assert.Empty(t, writer.createCalls)
		assert.Empty(t, writer.updateCalls)
		assert.Equal(t, 1, report.Excluded)
	})

	t.Run("hide pass", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{originProduct(1, "XYZ", model.VisibilityHidden)}}
		dest := &mockCatalog{products: []model.Product{excluded}}
		writer := &mockWriter{}

		report, err := runSync(t, origin, dest, writer)

		require.NoError(t, err)
		assert.Empty(t, writer.updateCalls)
		assert.Equal(t, 1, report.Excluded)
	})
}

func TestRunNeverCreatesForHiddenOrigin(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{originProduct(1, "NEW1", model.VisibilityHidden)}}
	dest := &mockCatalog{}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Empty(t, writer.createCalls)
	assert.Empty(t, writer.updateCalls)
	assert.Equal(t, 0, report.Hidden)
}

func TestRunHidesMatchedPublishedProduct(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityHidden)}}
	dest := &mockCatalog{products: []model.Product{syncedDestination(55, "ABC")}}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	require.Len(t, writer.updateCalls, 1)
	call := writer.updateCalls[0]
	assert.Equal(t, int64(55), call.id)
	require.NotNil(t, call.payload.Published)
	assert.False(t, *call.payload.Published)
	assert.Empty(t, call.payload.Variants)
	assert.Equal(t, 1, report.Hidden)
}

func TestRunSkipsHideWhenAlreadyHidden(t *testing.T) {
	alreadyHidden := syncedDestination(55, "ABC")
	alreadyHidden.Visibility = model.VisibilityHidden

	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityHidden)}}
	dest := &mockCatalog{products: []model.Product{alreadyHidden}}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Empty(t, writer.updateCalls)
	assert.Equal(t, 0, report.Hidden)
}

func TestRunUnknownVisibilityPolicy(t *testing.T) {
	unknown := originProduct(1, "ABC", model.VisibilityUnknown)

	t.Run("hidden policy propagates hiding", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{unknown}}
		dest := &mockCatalog{products: []model.Product{syncedDestination(55, "ABC")}}
		writer := &mockWriter{}

		syncer := NewSyncProducts(origin, dest, writer, syncConfig(), &testLogger{})
		report, err := syncer.Run(context.Background())

		require.NoError(t, err)
		assert.Len(t, writer.updateCalls, 1)
		assert.Equal(t, 1, report.Hidden)
	})

	t.Run("ignore policy leaves product alone", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{unknown}}
		dest := &mockCatalog{products: []model.Product{syncedDestination(55, "ABC")}}
		writer := &mockWriter{}

		cfg := syncConfig()
		cfg.UnknownVisibility = "ignore"
		syncer := NewSyncProducts(origin, dest, writer, cfg, &testLogger{})
		report, err := syncer.Run(context.Background())

		require.NoError(t, err)
		assert.Empty(t, writer.updateCalls)
		assert.Equal(t, 0, report.Hidden)
	})
}

func TestRunUnprocessableEntityFallback(t *testing.T) {
	t.Run("degraded retry lands the product", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityVisible)}}
		dest := &mockCatalog{}
		writer := &mockWriter{
			createErrs: []error{&tiendanube.APIError{StatusCode: 422, Body: "Variant values should not be repeated"}},
		}

		report, err := runSync(t, origin, dest, writer)

		require.NoError(t, err)
		require.Len(t, writer.createCalls, 2)
		assert.NotEmpty(t, writer.createCalls[0].Variants[0].Values)
		require.Len(t, writer.createCalls[1].Variants, 1)
		assert.Nil(t, writer.createCalls[1].Variants[0].Values)
		assert.Equal(t, 1, report.Created)
		assert.Equal(t, 0, report.Failed)
	})

	t.Run("failure after fallback is a per-item failure", func(t *testing.T) {
		origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityVisible)}}
		dest := &mockCatalog{}
		writer := &mockWriter{
			createErrs: []error{
				&tiendanube.APIError{StatusCode: 422},
				&tiendanube.APIError{StatusCode: 422},
			},
		}

		report, err := runSync(t, origin, dest, writer)

		require.NoError(t, err)
		assert.Len(t, writer.createCalls, 2)
		assert.Equal(t, 0, report.Created)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestRunPerItemFailureDoesNotAbort(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{
		originProduct(1, "AAA", model.VisibilityVisible),
		originProduct(2, "BBB", model.VisibilityVisible),
	}}
	dest := &mockCatalog{}
	writer := &mockWriter{
		createErrs: []error{&tiendanube.APIError{StatusCode: 500, Body: "boom"}},
	}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Len(t, writer.createCalls, 2)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)
}

func TestRunSkipsUnkeyableProduct(t *testing.T) {
	origin := &mockCatalog{products: []model.Product{{ID: 1, Visibility: model.VisibilityVisible}}}
	dest := &mockCatalog{}
	writer := &mockWriter{}

	report, err := runSync(t, origin, dest, writer)

	require.NoError(t, err)
	assert.Empty(t, writer.createCalls)
	assert.Equal(t, 1, report.Skipped)
}

func TestRunAbortsOnCatalogFetchFailure(t *testing.T) {
	t.Run("origin", func(t *testing.T) {
		origin := &mockCatalog{productsErr: errors.New("status 403")}
		_, err := runSync(t, origin, &mockCatalog{}, &mockWriter{})
		require.Error(t, err)
	})

	t.Run("destination", func(t *testing.T) {
		dest := &mockCatalog{productsErr: errors.New("status 403")}
		_, err := runSync(t, &mockCatalog{}, dest, &mockWriter{})
		require.Error(t, err)
	})
}

func TestRunNameMappedCategories(t *testing.T) {
	src := originProduct(1, "ABC", model.VisibilityVisible)
	src.Categories = []model.Category{{ID: 7, Name: model.Localized{"es": "Remeras"}}}

	origin := &mockCatalog{products: []model.Product{src}}
	dest := &mockCatalog{
		categories: []model.Category{{ID: 700, Name: model.Localized{"es": "Remeras"}}},
	}
	writer := &mockWriter{}

	cfg := syncConfig()
	cfg.CategoryMapping = "names"
	syncer := NewSyncProducts(origin, dest, writer, cfg, &testLogger{})
	_, err := syncer.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, writer.createCalls, 1)
	assert.Equal(t, []int64{700}, writer.createCalls[0].Categories)
}

func TestRunHidePassRespectsManagedTag(t *testing.T) {
	handAuthored := syncedDestination(55, "ABC") // same key, no managed tag

	origin := &mockCatalog{products: []model.Product{originProduct(1, "ABC", model.VisibilityHidden)}}
	dest := &mockCatalog{products: []model.Product{handAuthored}}
	writer := &mockWriter{}

	cfg := syncConfig()
	cfg.ManagedTag = "clonado"
	syncer := NewSyncProducts(origin, dest, writer, cfg, &testLogger{})
	report, err := syncer.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, writer.updateCalls)
	assert.Equal(t, 0, report.Hidden)
}
