package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/repository"
	"github.com/vladislavdragonenkov/wms/internal/service/water"
	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func newTestServices(t *testing.T) Services {
	t.Helper()
	ctx := context.Background()

	store, err := collection.Open(ctx, memory.NewBackend(), collection.WithLogger(quietLogger()))
	require.NoError(t, err)

	houses, err := repository.NewHouseRepository(ctx, store)
	require.NoError(t, err)
	meters, err := repository.NewWaterMeterRepository(ctx, store)
	require.NoError(t, err)
	usages, err := repository.NewWaterUsageRepository(ctx, store)
	require.NoError(t, err)
	readings, err := repository.NewWaterReadingRepository(ctx, store)
	require.NoError(t, err)

	logger := quietLogger()
	return Services{
		Houses:   water.NewHouseService(houses, nil, logger),
		Meters:   water.NewWaterMeterService(meters, nil, logger),
		Usages:   water.NewWaterUsageService(usages, meters, nil, logger),
		Readings: water.NewWaterReadingService(readings, meters, nil, nil, logger),
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(newTestServices(t), Options{Logger: quietLogger()})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
