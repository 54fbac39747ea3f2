package service

import (
	"context"
	"testing"
	"time"

	"github.com/edulabs/promo-service/internal/discount"
	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscountService(catalog models.Catalog) *DiscountService {
	return NewDiscountService(
		repository.NewInMemoryDiscountCodeRepository(),
		repository.NewInMemoryProductRepositoryWith(catalog),
		func() time.Time { return serviceNow },
	)
}

func discountCatalog() models.Catalog {
	early := serviceNow.AddDate(0, 0, -5)
	late := serviceNow.AddDate(0, 0, 20)
	return models.Catalog{
		models.TypeCourse: {
			{ID: "crs-1", Title: "Intro", Price: 100000},
		},
		models.TypeWebinar: {
			{ID: "web-past", Title: "Past", Price: 50000, RegistrationDeadline: &early},
			{ID: "web-future", Title: "Future", Price: 50000, RegistrationDeadline: &late},
		},
	}
}

func validDiscountDraft() models.DiscountCode {
	return models.DiscountCode{
		Code:      "LAUNCH10",
		Type:      models.DiscountPercentage,
		Value:     10,
		StartsAt:  serviceNow,
		ExpiresAt: serviceNow.AddDate(0, 1, 0),
	}
}

func TestDiscountService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft is persisted", func(t *testing.T) {
		svc := newDiscountService(discountCatalog())
		draft := validDiscountDraft()

		report, err := svc.Create(ctx, &draft)
		require.NoError(t, err)
		assert.True(t, report.Valid())
		assert.NotEmpty(t, draft.ID)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		svc := newDiscountService(discountCatalog())
		first := validDiscountDraft()
		_, err := svc.Create(ctx, &first)
		require.NoError(t, err)

		second := validDiscountDraft()
		_, err = svc.Create(ctx, &second)
		assert.ErrorIs(t, err, ErrCodeTaken)
	})

	t.Run("invalid window is rejected with the report", func(t *testing.T) {
		svc := newDiscountService(discountCatalog())
		draft := validDiscountDraft()
		draft.ExpiresAt = draft.StartsAt

		report, err := svc.Create(ctx, &draft)
		require.ErrorIs(t, err, ErrInvalidDraft)
		assert.Contains(t, report.Violations, "expiresAt")
	})
}

func TestDiscountService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newDiscountService(discountCatalog())

	first := validDiscountDraft()
	_, err := svc.Create(ctx, &first)
	require.NoError(t, err)

	second := validDiscountDraft()
	second.Code = "SPRING20"
	second.Value = 20
	_, err = svc.Create(ctx, &second)
	require.NoError(t, err)

	t.Run("keeping the same code is allowed", func(t *testing.T) {
		updated := validDiscountDraft()
		updated.Value = 15

		_, err := svc.Update(ctx, first.ID, &updated)
		require.NoError(t, err)

		stored, err := svc.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(15), stored.Value)
	})

	t.Run("renaming onto a taken code is rejected", func(t *testing.T) {
		updated := validDiscountDraft()
		updated.Code = "SPRING20"

		_, err := svc.Update(ctx, first.ID, &updated)
		assert.ErrorIs(t, err, ErrCodeTaken)
	})

	t.Run("unknown id surfaces not found", func(t *testing.T) {
		updated := validDiscountDraft()
		_, err := svc.Update(ctx, "missing", &updated)
		assert.ErrorIs(t, err, repository.ErrDiscountCodeNotFound)
	})
}

func TestDiscountService_AvailableProducts(t *testing.T) {
	ctx := context.Background()
	svc := newDiscountService(discountCatalog())

	t.Run("start-date filter applies to time-bound types", func(t *testing.T) {
		draft := validDiscountDraft()

		products, err := svc.AvailableProducts(ctx, models.TypeWebinar, &draft)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "web-future", products[0].ID)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		draft := validDiscountDraft()
		_, err := svc.AvailableProducts(ctx, models.ProductType("ebook"), &draft)
		assert.ErrorIs(t, err, ErrInvalidProductType)
	})
}

func TestDiscountService_SelectedProducts(t *testing.T) {
	svc := newDiscountService(discountCatalog())

	past := serviceNow.AddDate(0, 0, -1)
	soon := serviceNow.AddDate(0, 0, 2)

	draft := validDiscountDraft()
	draft.StartsAt = serviceNow.AddDate(0, 0, 10)
	draft.ApplicableProducts = []models.BundleItem{
		{Type: models.TypeCourse, ProductID: "crs-1"},
		{Type: models.TypeWebinar, ProductID: "web-a", RegistrationDeadline: &past},
		{Type: models.TypeWebinar, ProductID: "web-b", RegistrationDeadline: &soon},
	}

	selected := svc.SelectedProducts(&draft)
	require.Len(t, selected, 3)
	assert.Equal(t, discount.StatusNone, selected[0].Status)
	assert.Equal(t, discount.StatusClosed, selected[1].Status)
	assert.Equal(t, discount.StatusClosesBeforeStart, selected[2].Status)
}
