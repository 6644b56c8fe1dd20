package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/service"
	"github.com/hmc-usinagem/ftc-api/tests/testutil"
)

func TestNextQuoteNumber_Format(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())

	number, err := svc.NextQuoteNumber(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("FTC-%d-001", time.Now().Year()), number)
}

func TestNextQuoteNumber_Increments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), zap.NewNop())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 1; i <= 5; i++ {
		number, err := svc.NextQuoteNumber(ctx)
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("FTC-%d-%03d", time.Now().Year(), i), number)
		assert.False(t, seen[number], "quote number %s issued twice", number)
		seen[number] = true
	}
}

func TestNumberSequenceRepository_GetCurrentValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()
	year := time.Now().Year()

	// No sequence yet: current value is zero, not an error.
	current, err := repo.GetCurrentValue(ctx, year)
	require.NoError(t, err)
	assert.Zero(t, current)

	_, err = repo.GetNextNumber(ctx, year)
	require.NoError(t, err)
	_, err = repo.GetNextNumber(ctx, year)
	require.NoError(t, err)

	current, err = repo.GetCurrentValue(ctx, year)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestNumberSequenceRepository_SeparateCounterPerYear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	n, err := repo.GetNextNumber(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.GetNextNumber(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A new year starts back at 1.
	n, err = repo.GetNextNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
