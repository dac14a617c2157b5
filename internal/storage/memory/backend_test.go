package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

func TestBackend_SaveLoadRemove(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend()

	require.NoError(t, backend.Save(ctx, "houses", collection.Records{
		"h1": json.RawMessage(`{"id":"h1"}`),
	}))
	require.NoError(t, backend.Save(ctx, "waterMeters", nil))

	loaded, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.JSONEq(t, `{"id":"h1"}`, string(loaded["houses"]["h1"]))
	assert.Equal(t, []string{"houses", "waterMeters"}, backend.Names())

	require.NoError(t, backend.Remove(ctx, "houses"))
	_, ok := backend.Snapshot("houses")
	assert.False(t, ok)
}

func TestBackend_SaveDoesNotRetainRecords(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend()
	records := collection.Records{"h1": json.RawMessage(`{"id":"h1"}`)}

	require.NoError(t, backend.Save(ctx, "houses", records))
	records["h2"] = json.RawMessage(`{"id":"h2"}`)

	loaded, err := backend.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded["houses"], 1)
}
