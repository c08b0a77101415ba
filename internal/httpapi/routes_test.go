package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/hearts-client/internal/hub"
	"github.com/DoyleJ11/hearts-client/pkg/types"
)

type stubSeat struct{ view types.SessionView }

func (s stubSeat) ID() string { return s.view.ID }

func (s stubSeat) View(context.Context) (types.SessionView, error) { return s.view, nil }

type stubGames struct {
	limit int
	hands map[string]int64
}

func (g *stubGames) RecentGames(_ context.Context, limit int) ([]types.GameView, error) {
	g.limit = limit
	return []types.GameView{{SessionID: "s-1", Winner: "P2", Hands: 4}}, nil
}

func (g *stubGames) HandCount(_ context.Context, sessionID string) (int64, error) {
	return g.hands[sessionID], nil
}

func newHub(t *testing.T, views ...types.SessionView) *hub.Hub {
	t.Helper()
	h := hub.NewHub(context.Background())
	t.Cleanup(h.Shutdown)
	for _, v := range views {
		require.True(t, h.Register(context.Background(), stubSeat{view: v}))
	}
	return h
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes_Sessions(t *testing.T) {
	h := newHub(t,
		types.SessionView{ID: "s-1", Seat: 1, Phase: "in_hand"},
		types.SessionView{ID: "s-2", Seat: 2, Phase: "idle"},
	)
	r := SetupRoutes(h, nil)

	rec := get(t, r, "/sessions")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []types.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "in_hand", views[0].Phase)

	rec = get(t, r, "/sessions/s-2")
	require.Equal(t, http.StatusOK, rec.Code)
	var one types.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "idle", one.Phase)
	assert.Nil(t, one.HandsRecorded, "no history configured")

	assert.Equal(t, http.StatusNotFound, get(t, r, "/sessions/nope").Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/healthz").Code)
}

func TestRoutes_History(t *testing.T) {
	h := newHub(t)

	assert.Equal(t, http.StatusNotFound, get(t, SetupRoutes(h, nil), "/history").Code)

	games := &stubGames{}
	r := SetupRoutes(h, games)

	rec := get(t, r, "/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, games.limit)
	assert.Contains(t, rec.Body.String(), `"winner":"P2"`)

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/history?limit=x").Code)
}

func TestRoutes_SessionIncludesRecordedHands(t *testing.T) {
	h := newHub(t, types.SessionView{ID: "s-1", Seat: 1, Phase: "idle"})
	r := SetupRoutes(h, &stubGames{hands: map[string]int64{"s-1": 3}})

	rec := get(t, r, "/sessions/s-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var one types.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	require.NotNil(t, one.HandsRecorded)
	assert.EqualValues(t, 3, *one.HandsRecorded)
}
