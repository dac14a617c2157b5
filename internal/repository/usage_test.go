package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

func TestWaterUsageRepository_DefaultsAndDecimal(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	repo, err := NewWaterUsageRepository(ctx, store, fixedClock())
	require.NoError(t, err)

	usage, err := repo.Create(ctx, domain.WaterUsage{MeterID: "m1", Reading: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.UsageStatusPending, usage.Status)
	assert.True(t, usage.BillAmount.IsZero())
	assert.True(t, usage.ReadingDate.Equal(fixedNow))

	amount := decimal.RequireFromString("123.45")
	paid := domain.UsageStatusPaid
	updated, found, err := repo.Update(ctx, usage.ID, domain.UsagePatch{BillAmount: &amount, Status: &paid})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, updated.BillAmount.Equal(amount))
	assert.Equal(t, domain.UsageStatusPaid, updated.Status)
	assert.Equal(t, 10.0, updated.Reading)
}

func TestWaterUsageRepository_FindByDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	repo, err := NewWaterUsageRepository(ctx, store)
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	for _, d := range []int{1, 5, 10, 15} {
		_, err := repo.Create(ctx, domain.WaterUsage{MeterID: "m1", Reading: float64(d), ReadingDate: day(d)})
		require.NoError(t, err)
	}

	found, err := repo.FindByDateRange(ctx, day(5), day(10))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.ElementsMatch(t, []float64{5, 10}, []float64{found[0].Reading, found[1].Reading})

	byMeter, err := repo.FindByMeterID(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, byMeter, 4)
}

func TestWaterUsageFilterAcrossMeterHouseRelation(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	meters, err := NewWaterMeterRepository(ctx, store)
	require.NoError(t, err)
	usages, err := NewWaterUsageRepository(ctx, store)
	require.NoError(t, err)

	m1, err := meters.Create(ctx, domain.WaterMeter{HouseID: "h1", MeterNumber: "A"})
	require.NoError(t, err)
	m2, err := meters.Create(ctx, domain.WaterMeter{HouseID: "h1", MeterNumber: "B"})
	require.NoError(t, err)
	m3, err := meters.Create(ctx, domain.WaterMeter{HouseID: "h2", MeterNumber: "C"})
	require.NoError(t, err)
	for _, id := range []string{m1.ID, m2.ID, m3.ID, m1.ID} {
		_, err := usages.Create(ctx, domain.WaterUsage{MeterID: id, Reading: 1})
		require.NoError(t, err)
	}

	houseMeters, err := meters.FindByHouseID(ctx, "h1")
	require.NoError(t, err)
	ids := make([]string, 0, len(houseMeters))
	for _, m := range houseMeters {
		ids = append(ids, m.ID)
	}
	found, err := usages.FindByMeterIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, found, 3)
	for _, u := range found {
		assert.NotEqual(t, m3.ID, u.MeterID)
	}

	none, err := usages.FindByMeterIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
