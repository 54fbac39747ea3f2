package service

import (
	"context"
	"testing"
	"time"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newBundleService() *BundleService {
	return NewBundleService(repository.NewInMemoryBundleRepository(), func() time.Time { return serviceNow })
}

func validBundleDraft() models.Bundle {
	return models.Bundle{
		Title: "Career Starter Pack",
		Price: 120000,
		Items: []models.BundleItem{
			{Type: models.TypeCourse, ProductID: "crs-1", Title: "Intro", Price: 100000},
			{Type: models.TypeWebinar, ProductID: "web-1", Title: "Q&A", Price: 50000},
		},
	}
}

func TestBundleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft is persisted with a fresh id", func(t *testing.T) {
		svc := newBundleService()
		draft := validBundleDraft()

		report, err := svc.Create(ctx, &draft)
		require.NoError(t, err)
		assert.True(t, report.Valid())
		assert.NotEmpty(t, draft.ID)

		stored, err := svc.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.Title, stored.Title)
		assert.Len(t, stored.Items, 2)
	})

	t.Run("invalid draft is rejected with the report", func(t *testing.T) {
		svc := newBundleService()
		draft := validBundleDraft()
		draft.Items = draft.Items[:1]

		report, err := svc.Create(ctx, &draft)
		require.ErrorIs(t, err, ErrInvalidDraft)
		assert.Contains(t, report.Violations, "items")

		bundles, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, bundles)
	})
}

func TestBundleService_Normalize(t *testing.T) {
	svc := newBundleService()

	early := serviceNow.Add(3 * 24 * time.Hour)
	late := serviceNow.Add(10 * 24 * time.Hour)

	t.Run("auto drafts pick up the earliest future deadline", func(t *testing.T) {
		draft := validBundleDraft()
		draft.DeadlineIsAuto = true
		draft.Items[0].RegistrationDeadline = &late
		draft.Items[1].RegistrationDeadline = &early

		svc.Normalize(&draft)

		require.NotNil(t, draft.RegistrationDeadline)
		assert.True(t, draft.RegistrationDeadline.Equal(early))
		assert.True(t, draft.DeadlineIsAuto)
	})

	t.Run("manually overridden deadline is kept", func(t *testing.T) {
		manual := serviceNow.Add(24 * time.Hour)
		draft := validBundleDraft()
		draft.DeadlineIsAuto = false
		draft.RegistrationDeadline = &manual
		draft.Items[1].RegistrationDeadline = &early

		svc.Normalize(&draft)

		require.NotNil(t, draft.RegistrationDeadline)
		assert.True(t, draft.RegistrationDeadline.Equal(manual))
	})

	t.Run("no future deadline clears the auto flag", func(t *testing.T) {
		draft := validBundleDraft()
		draft.DeadlineIsAuto = true

		svc.Normalize(&draft)

		assert.False(t, draft.DeadlineIsAuto)
	})
}

func TestBundleService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newBundleService()

	draft := validBundleDraft()
	_, err := svc.Create(ctx, &draft)
	require.NoError(t, err)

	t.Run("updates an existing bundle in place", func(t *testing.T) {
		updated := validBundleDraft()
		updated.Title = "Renamed Pack"

		report, err := svc.Update(ctx, draft.ID, &updated)
		require.NoError(t, err)
		assert.True(t, report.Valid())

		stored, err := svc.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Pack", stored.Title)
	})

	t.Run("unknown id surfaces not found", func(t *testing.T) {
		updated := validBundleDraft()
		_, err := svc.Update(ctx, "missing", &updated)
		assert.ErrorIs(t, err, repository.ErrBundleNotFound)
	})

	t.Run("invalid draft never reaches the store", func(t *testing.T) {
		updated := validBundleDraft()
		updated.Price = 10000000

		_, err := svc.Update(ctx, draft.ID, &updated)
		require.ErrorIs(t, err, ErrInvalidDraft)

		stored, err := svc.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed Pack", stored.Title)
	})
}

func TestBundleService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newBundleService()

	draft := validBundleDraft()
	_, err := svc.Create(ctx, &draft)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, draft.ID))

	_, err = svc.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, repository.ErrBundleNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, draft.ID), repository.ErrBundleNotFound)
}
