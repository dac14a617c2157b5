package water

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

func usageAt(meterID string, date time.Time) domain.WaterUsage {
	return domain.WaterUsage{
		MeterID:     meterID,
		Reading:     120.5,
		ReadingDate: date,
		Consumption: 12,
		BillAmount:  decimal.RequireFromString("18.40"),
		Status:      domain.UsageStatusPending,
	}
}

func TestWaterUsageService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.usages.Create(ctx, domain.WaterUsage{MeterID: "m-1"})
	require.ErrorIs(t, err, domain.ErrMissingFields)

	negative := usageAt("m-1", day)
	negative.BillAmount = decimal.RequireFromString("-1")
	_, err = f.usages.Create(ctx, negative)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "billAmount")

	created, err := f.usages.Create(ctx, usageAt("m-1", day))
	require.NoError(t, err)
	assert.True(t, created.BillAmount.Equal(decimal.RequireFromString("18.4")))
}

func TestWaterUsageService_UpdateRejectsNegativeBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.usages.Create(ctx, usageAt("m-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	negative := decimal.RequireFromString("-3")
	_, err = f.usages.Update(ctx, created.ID, domain.UsagePatch{BillAmount: &negative})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.usages.Update(ctx, created.ID, domain.UsagePatch{MeterID: ptr("")})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "meterId")

	_, err = f.usages.Update(ctx, created.ID, domain.UsagePatch{Status: ptr(domain.UsageStatus(""))})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	paid := domain.UsageStatusPaid
	updated, err := f.usages.Update(ctx, created.ID, domain.UsagePatch{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, domain.UsageStatusPaid, updated.Status)
}

func TestWaterUsageService_FindByDateRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.usages.Create(ctx, usageAt("m-1", march))
	require.NoError(t, err)
	_, err = f.usages.Create(ctx, usageAt("m-1", april))
	require.NoError(t, err)

	found, err := f.usages.FindByDateRange(ctx, march, march)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.usages.FindByDateRange(ctx, april, march)
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestWaterUsageService_FindByHouseID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	kitchen, err := f.meters.RegisterMeter(ctx, validMeter("house-1", "WM-K"))
	require.NoError(t, err)
	garden, err := f.meters.RegisterMeter(ctx, validMeter("house-1", "WM-G"))
	require.NoError(t, err)
	other, err := f.meters.RegisterMeter(ctx, validMeter("house-2", "WM-O"))
	require.NoError(t, err)

	for _, meterID := range []string{kitchen.ID, garden.ID, other.ID, kitchen.ID} {
		_, err := f.usages.Create(ctx, usageAt(meterID, day))
		require.NoError(t, err)
	}

	found, err := f.usages.FindByHouseID(ctx, "house-1")
	require.NoError(t, err)
	require.Len(t, found, 3)
	for _, usage := range found {
		assert.NotEqual(t, other.ID, usage.MeterID)
	}

	empty, err := f.usages.FindByHouseID(ctx, "house-unknown")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
