package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
	"github.com/vladislavdragonenkov/wms/internal/storage/memory"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func loggerForTests() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	return logger.WithField("component", "repository-test")
}

func openTestStore(t *testing.T, backend collection.Backend) *collection.Store {
	t.Helper()
	store, err := collection.Open(context.Background(), backend, collection.WithLogger(loggerForTests()))
	require.NoError(t, err)
	return store
}

func newMemoryStore(t *testing.T) (*collection.Store, *memory.Backend) {
	t.Helper()
	backend := memory.NewBackend()
	return openTestStore(t, backend), backend
}

func fixedClock() Option {
	return WithClock(func() time.Time { return fixedNow })
}

func sequentialIDs(prefix string) Option {
	var n atomic.Int64
	return WithIDGenerator(func() string {
		return fmt.Sprintf("%s-%03d", prefix, n.Add(1))
	})
}
