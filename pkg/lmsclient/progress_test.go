package lmsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressServer(t *testing.T, progress map[uint]int) (*Client, *int32) {
	var writes int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/student/units/7":
			var units []map[string]interface{}
			for _, id := range []uint{1, 2, 3} {
				units = append(units, map[string]interface{}{"id": id, "title": "u", "progress": progress[id]})
			}
			writeJSON(w, http.StatusOK, "success", units)
		case r.Method == http.MethodPut:
			atomic.AddInt32(&writes, 1)
			var body struct {
				Progress int `json:"progress"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, "Progress updated successfully", map[string]int{"progress": body.Progress})
		case r.Method == http.MethodDelete:
			atomic.AddInt32(&writes, 1)
			writeJSON(w, http.StatusOK, "Successfully unenrolled from the unit", nil)
		default:
			writeJSON(w, http.StatusNotFound, "not found", nil)
		}
	})
	return c, &writes
}

func TestProgressClampAtBounds(t *testing.T) {
	c, writes := progressServer(t, map[uint]int{1: 0, 2: 100, 3: 50})
	tr := c.ProgressTracker()
	require.NoError(t, tr.Load(context.Background()))

	assert.False(t, tr.CanDecrement(1))
	assert.True(t, tr.CanIncrement(1))
	assert.False(t, tr.CanIncrement(2))
	assert.True(t, tr.CanDecrement(2))

	require.NoError(t, tr.Decrement(context.Background(), 1))
	require.NoError(t, tr.Increment(context.Background(), 2))
	assert.Equal(t, int32(0), atomic.LoadInt32(writes))

	require.NoError(t, tr.Increment(context.Background(), 3))
	p, _ := tr.Progress(3)
	assert.Equal(t, 60, p)
	require.NoError(t, tr.Decrement(context.Background(), 3))
	require.NoError(t, tr.Decrement(context.Background(), 3))
	p, _ = tr.Progress(3)
	assert.Equal(t, 40, p)
	assert.Equal(t, int32(3), atomic.LoadInt32(writes))
}

func TestUnenrollNeedsConfirmation(t *testing.T) {
	c, writes := progressServer(t, map[uint]int{1: 10, 2: 20, 3: 30})
	tr := c.ProgressTracker()
	require.NoError(t, tr.Load(context.Background()))

	require.NoError(t, tr.Unenroll(context.Background(), 2, false))
	assert.Len(t, tr.Units(), 3)
	assert.Equal(t, int32(0), atomic.LoadInt32(writes))

	require.NoError(t, tr.Unenroll(context.Background(), 2, true))
	assert.Len(t, tr.Units(), 2)
	_, ok := tr.Progress(2)
	assert.False(t, ok)
}

func TestProgressRequiresSession(t *testing.T) {
	c, _ := progressServer(t, nil)
	c.Session().Clear()
	assert.ErrorIs(t, c.ProgressTracker().Load(context.Background()), ErrNotLoggedIn)
}
