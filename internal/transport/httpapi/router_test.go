package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

func houseBody() map[string]any {
	return map[string]any{
		"address":       "1 River Road",
		"ownerName":     "Sam Carter",
		"contactNumber": "+44 20 7946 0000",
		"email":         "sam@example.com",
	}
}

func TestHousesCRUD(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/houses", houseBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[domain.House](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.HouseStatusActive, created.Status)

	w = doJSON(t, router, http.MethodGet, "/api/houses/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/houses/"+created.ID, map[string]any{"ownerName": "Sam Carter-Jones"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[domain.House](t, w)
	assert.Equal(t, "Sam Carter-Jones", updated.OwnerName)
	assert.Equal(t, created.Address, updated.Address)

	w = doJSON(t, router, http.MethodGet, "/api/houses/owner/carter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.House](t, w), 1)

	w = doJSON(t, router, http.MethodDelete, "/api/houses/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/houses/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, codeNotFound, body.Code)
	assert.Equal(t, "house not found", body.Error)

	w = doJSON(t, router, http.MethodGet, "/api/houses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHouseCreateValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/houses", map[string]any{"address": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeInvalidArgument, decodeBody[errorResponse](t, w).Code)

	w = doJSON(t, router, http.MethodPost, "/api/houses", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[errorResponse](t, w).Error, "malformed JSON body")
}

func TestMeterRoutes(t *testing.T) {
	router := newTestRouter(t)

	meterBody := map[string]any{"houseId": "h-1", "meterNumber": "WM-100", "location": "Kitchen"}
	w := doJSON(t, router, http.MethodPost, "/api/water-meters", meterBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	meter := decodeBody[domain.WaterMeter](t, w)

	w = doJSON(t, router, http.MethodPost, "/api/water-meters", meterBody)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, codeConflict, decodeBody[errorResponse](t, w).Code)

	w = doJSON(t, router, http.MethodGet, "/api/water-meters/number/WM-100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, meter.ID, decodeBody[domain.WaterMeter](t, w).ID)

	w = doJSON(t, router, http.MethodGet, "/api/water-meters/house/h-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterMeter](t, w), 1)

	w = doJSON(t, router, http.MethodPatch, "/api/water-meters/"+meter.ID+"/status", map[string]any{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.MeterStatusMaintenance, decodeBody[domain.WaterMeter](t, w).Status)

	w = doJSON(t, router, http.MethodPatch, "/api/water-meters/"+meter.ID+"/status", map[string]any{"status": "exploded"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/water-meters/"+meter.ID+"/threshold", map[string]any{"threshold": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/water-meters/"+meter.ID+"/threshold", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/water-meters/"+meter.ID+"/threshold", map[string]any{"threshold": 42.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 42.5, decodeBody[domain.WaterMeter](t, w).Threshold, 0)

	w = doJSON(t, router, http.MethodDelete, "/api/water-meters/"+meter.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/water-meters/"+meter.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/water-meters", map[string]any{"houseId": "h-7", "meterNumber": "WM-7", "location": "Garden"})
	require.Equal(t, http.StatusCreated, w.Code)
	meter := decodeBody[domain.WaterMeter](t, w)

	w = doJSON(t, router, http.MethodPost, "/api/water-usage", map[string]any{
		"meterId":     meter.ID,
		"reading":     512.25,
		"readingDate": "2024-03-15T00:00:00Z",
		"consumption": 21.5,
		"billAmount":  "31.99",
		"status":      "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	usage := decodeBody[domain.WaterUsage](t, w)
	assert.Equal(t, "31.99", usage.BillAmount.String())

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/date-range?startDate=2024-03-01&endDate=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterUsage](t, w), 1)

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/date-range?startDate=2024-03-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[errorResponse](t, w).Error, "startDate and endDate are required")

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/date-range?startDate=2024-04-01&endDate=2024-03-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/date-range?startDate=yesterday&endDate=2024-03-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/house/h-7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterUsage](t, w), 1)

	w = doJSON(t, router, http.MethodGet, "/api/water-usage/meter/"+meter.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterUsage](t, w), 1)

	w = doJSON(t, router, http.MethodPut, "/api/water-usage/"+usage.ID, map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.UsageStatusPaid, decodeBody[domain.WaterUsage](t, w).Status)

	w = doJSON(t, router, http.MethodDelete, "/api/water-usage/"+usage.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestReadingRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/water-meters", map[string]any{
		"houseId": "h-9", "meterNumber": "WM-9", "location": "Roof", "threshold": 20,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	meter := decodeBody[domain.WaterMeter](t, w)

	w = doJSON(t, router, http.MethodPost, "/api/water-readings", map[string]any{
		"meterId":   meter.ID,
		"reading":   88,
		"flowRate":  35,
		"timestamp": "2024-05-01T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reading := decodeBody[domain.WaterReading](t, w)
	assert.True(t, reading.IsAlert)

	w = doJSON(t, router, http.MethodGet, "/api/water-readings/time-range?start=2024-05-01T00:00:00Z&end=2024-05-02T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterReading](t, w), 1)

	w = doJSON(t, router, http.MethodGet, "/api/water-readings/meter/"+meter.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.WaterReading](t, w), 1)

	w = doJSON(t, router, http.MethodPost, "/api/water-readings", map[string]any{"meterId": "ghost", "reading": 1})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/water-readings/"+reading.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/water-readings/"+reading.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type failingHouses struct {
	HouseService
	err error
}

func (f failingHouses) FindAll(context.Context) ([]domain.House, error) { return nil, f.err }

func (f failingHouses) FindByID(context.Context, string) (domain.House, error) {
	panic("handler bug")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	services := newTestServices(t)
	services.Houses = failingHouses{err: errors.New("disk on fire")}
	router := NewRouter(services, Options{Logger: quietLogger()})

	w := doJSON(t, router, http.MethodGet, "/api/houses", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, codeInternal, body.Code)
	assert.NotContains(t, body.Error, "disk on fire")

	w = doJSON(t, router, http.MethodGet, "/api/houses/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, codeInternal, decodeBody[errorResponse](t, w).Code)
}

type observedRequest struct {
	method, route string
	status        int
}

type fakeObserver struct {
	requests []observedRequest
}

func (o *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.requests = append(o.requests, observedRequest{method: method, route: route, status: status})
}

func TestMiddleware(t *testing.T) {
	observer := &fakeObserver{}
	router := NewRouter(newTestServices(t), Options{Logger: quietLogger(), Observer: observer})

	req := httptest.NewRequest(http.MethodGet, "/api/houses/missing", nil)
	req.Header.Set(headerRequestID, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(headerRequestID))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Len(t, observer.requests, 1)
	assert.Equal(t, observedRequest{method: http.MethodGet, route: "/api/houses/:id", status: http.StatusNotFound}, observer.requests[0])

	w = doJSON(t, router, http.MethodGet, "/api/houses", nil)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	w = doJSON(t, router, http.MethodOptions, "/api/houses", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, codeNotFound, decodeBody[errorResponse](t, w).Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrMeterNotFound, http.StatusNotFound},
		{domain.ErrInvalidThreshold, http.StatusBadRequest},
		{domain.ErrMissingFields, http.StatusBadRequest},
		{domain.ErrMeterNumberExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}
