package water

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

func TestWaterReadingService_RecordBelowThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meter, err := f.meters.RegisterMeter(ctx, validMeter("house-1", "WM-R1"))
	require.NoError(t, err)

	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	reading, err := f.readings.Record(ctx, domain.WaterReading{
		MeterID:   meter.ID,
		Reading:   345.6,
		Timestamp: at,
		FlowRate:  12,
	})
	require.NoError(t, err)
	assert.False(t, reading.IsAlert)
	assert.Empty(t, reading.AlertReason)
	assert.Empty(t, f.alerts.meters)

	refreshed, err := f.meters.GetMeterByID(ctx, meter.ID)
	require.NoError(t, err)
	assert.InDelta(t, 345.6, refreshed.LastReading, 1e-9)
	assert.True(t, refreshed.LastReadingDate.Equal(at))
}

func TestWaterReadingService_RecordAboveThresholdRaisesAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meter := validMeter("house-1", "WM-R2")
	meter.Threshold = 50
	registered, err := f.meters.RegisterMeter(ctx, meter)
	require.NoError(t, err)

	reading, err := f.readings.Record(ctx, domain.WaterReading{MeterID: registered.ID, Reading: 10, FlowRate: 75.5})
	require.NoError(t, err)
	assert.True(t, reading.IsAlert)
	assert.Contains(t, reading.AlertReason, "75.50")
	assert.Equal(t, []string{registered.ID}, f.alerts.meters)

	assert.Equal(t, []string{
		"waterMeters:created",
		"waterReadings:created",
		"waterMeters:updated",
		"waterReadings:alert",
	}, f.publisher.kinds())
}

func TestWaterReadingService_RecordIgnoresClientAlertFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meter, err := f.meters.RegisterMeter(ctx, validMeter("house-1", "WM-R3"))
	require.NoError(t, err)

	reading, err := f.readings.Record(ctx, domain.WaterReading{
		MeterID:     meter.ID,
		Reading:     1,
		FlowRate:    1,
		IsAlert:     true,
		AlertReason: "forged",
	})
	require.NoError(t, err)
	assert.False(t, reading.IsAlert)
	assert.Empty(t, reading.AlertReason)
}

func TestWaterReadingService_RecordUnknownMeter(t *testing.T) {
	f := newFixture(t)

	_, err := f.readings.Record(context.Background(), domain.WaterReading{MeterID: "missing", Reading: 1})
	require.ErrorIs(t, err, domain.ErrMeterNotFound)

	_, err = f.readings.Record(context.Background(), domain.WaterReading{Reading: 1})
	require.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestWaterReadingService_Queries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meter, err := f.meters.RegisterMeter(ctx, validMeter("house-1", "WM-R4"))
	require.NoError(t, err)

	morning := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC)
	first, err := f.readings.Record(ctx, domain.WaterReading{MeterID: meter.ID, Reading: 1, Timestamp: morning})
	require.NoError(t, err)
	_, err = f.readings.Record(ctx, domain.WaterReading{MeterID: meter.ID, Reading: 2, Timestamp: evening})
	require.NoError(t, err)

	found, err := f.readings.FindByTimeRange(ctx, morning, morning.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	_, err = f.readings.FindByTimeRange(ctx, evening, morning)
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)

	byMeter, err := f.readings.FindByMeterID(ctx, meter.ID)
	require.NoError(t, err)
	assert.Len(t, byMeter, 2)

	require.NoError(t, f.readings.Delete(ctx, first.ID))
	_, err = f.readings.FindByID(ctx, first.ID)
	require.ErrorIs(t, err, domain.ErrReadingNotFound)
	require.ErrorIs(t, f.readings.Delete(ctx, first.ID), domain.ErrReadingNotFound)
}

func TestValidationError_Classification(t *testing.T) {
	v := newValidator()

	err := validationError(v.Struct(domain.WaterReading{Reading: -1}))
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.NotErrorIs(t, err, domain.ErrMissingFields)
	assert.Contains(t, err.Error(), "reading must satisfy gte=0")
	assert.Contains(t, err.Error(), "missing meterId")
}
