package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagview-api/internal/store"
	"tagview-api/pkg/engine"
)

// newTestServer wires a Server with an in-memory store and no auth, routing
// only the read endpoints under test.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		Router:     chi.NewRouter(),
		Store:      store.New(),
		Thresholds: engine.DefaultThresholds(),
	}
	s.Router.Get("/snapshots", s.listSnapshots)
	s.Router.Get("/snapshots/{id}", s.getSnapshot)
	s.Router.Delete("/snapshots/{id}", s.deleteSnapshot)
	s.Router.Get("/assets", s.listSnapshotAssets)
	s.Router.Get("/alerts", s.listAlerts)
	s.Router.Get("/warnings", s.listWarnings)
	s.Router.Get("/summary", s.getSummary)
	s.Router.Get("/trend", s.getTrend)
	s.Router.Get("/export", s.exportAssets)
	return s
}

func loadFixtureSnapshot(t *testing.T, s *Server) *engine.Snapshot {
	t.Helper()
	now := time.Date(2025, 9, 22, 12, 0, 0, 0, time.UTC)
	table := &engine.RawTable{
		Columns: []string{"Asset ID", "Building", "Room Name", "Checked Out To", "Check Out Date", "Last Updated", "Active"},
		Rows: []engine.Row{
			{"Asset ID": "A-1", "Building": "Main", "Room Name": "101", "Checked Out To": "Jane Doe", "Check Out Date": "2025-08-01", "Last Updated": "2025-09-20", "Active": "Yes"},
			{"Asset ID": "A-2", "Building": "Main", "Room Name": "102", "Last Updated": "2025-09-21", "Active": "Yes"},
			{"Asset ID": "A-3", "Building": "Annex", "Room Name": "201", "Checked Out To": "Sam Lee", "Check Out Date": "2025-09-15", "Last Updated": "2025-05-01", "Active": "No"},
		},
	}
	snap, err := engine.BuildSnapshot(table, now, s.Thresholds)
	require.NoError(t, err)
	snap.Name = "fixture"
	snap.LoadedAt = now
	s.Store.Add(snap)
	return snap
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestReadEndpointsWithoutSnapshot(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/assets", "/alerts", "/warnings", "/summary", "/trend", "/export"} {
		w := doRequest(s, "GET", target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Contains(t, w.Body.String(), "no snapshot loaded", target)
	}
}

func TestListSnapshots(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	w := doRequest(s, "GET", "/snapshots")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []engine.Snapshot `json:"items"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "fixture", resp.Items[0].Name)
	// Records are summary-only over the wire
	assert.Equal(t, 3, resp.Items[0].Summary.Total)
}

func TestGetSnapshot(t *testing.T) {
	s := newTestServer(t)
	snap := loadFixtureSnapshot(t, s)

	w := doRequest(s, "GET", "/snapshots/1")
	require.Equal(t, http.StatusOK, w.Code)

	var got engine.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Summary.Total, got.Summary.Total)

	assert.Equal(t, http.StatusNotFound, doRequest(s, "GET", "/snapshots/99").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(s, "GET", "/snapshots/abc").Code)
}

func TestDeleteSnapshot(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	assert.Equal(t, http.StatusNoContent, doRequest(s, "DELETE", "/snapshots/1").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(s, "DELETE", "/snapshots/1").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(s, "GET", "/assets").Code)
}

func TestListSnapshotAssets(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	t.Run("returns all assets by default", func(t *testing.T) {
		w := doRequest(s, "GET", "/assets")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []engine.ClassifiedAsset `json:"items"`
			Total int                      `json:"total"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 3, resp.Total)
		// Default sort is asset_id ascending
		assert.Equal(t, "A-1", resp.Items[0].AssetID)
	})

	t.Run("filters by building and status", func(t *testing.T) {
		w := doRequest(s, "GET", "/assets?building=Main&status=CheckedOut")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []engine.ClassifiedAsset `json:"items"`
			Total int                      `json:"total"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "A-1", resp.Items[0].AssetID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		w := doRequest(s, "GET", "/assets?status=Broken")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `unknown status "Broken"`)
	})

	t.Run("paginates", func(t *testing.T) {
		w := doRequest(s, "GET", "/assets?limit=2&offset=2")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []engine.ClassifiedAsset `json:"items"`
			Total int                      `json:"total"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 3, resp.Total)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "A-3", resp.Items[0].AssetID)
	})

	t.Run("selects an explicit snapshot", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, doRequest(s, "GET", "/assets?snapshot=42").Code)
		assert.Equal(t, http.StatusOK, doRequest(s, "GET", "/assets?snapshot=1").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(s, "GET", "/assets?snapshot=abc").Code)
	})
}

func TestListAlerts(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	w := doRequest(s, "GET", "/alerts")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []engine.Alert `json:"items"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	// A-1: long checkout. A-3: stale update + inactive-but-checked-out.
	assert.Equal(t, 3, resp.Total)

	w = doRequest(s, "GET", "/alerts?severity=critical")
	require.Equal(t, http.StatusOK, w.Code)
	resp.Items = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, engine.AlertInactiveButCheckedOut, resp.Items[0].Kind)

	w = doRequest(s, "GET", "/alerts?kind=StaleUpdate")
	require.Equal(t, http.StatusOK, w.Code)
	resp.Items = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "A-3", resp.Items[0].AssetID)
}

func TestGetSummary(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	w := doRequest(s, "GET", "/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var summary engine.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[engine.StatusInactiveCheckedOut])
	assert.Equal(t, 2, summary.ByBuilding["Main"])
}

func TestGetTrend(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	w := doRequest(s, "GET", "/trend?granularity=month&buckets=5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Granularity string              `json:"granularity"`
		Points      []engine.TrendPoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "month", resp.Granularity)
	require.Len(t, resp.Points, 5)
	assert.Equal(t, "2025-09", resp.Points[4].Period)
	assert.Equal(t, 2, resp.Points[4].Count)
	assert.Equal(t, "2025-05", resp.Points[0].Period)
	assert.Equal(t, 1, resp.Points[0].Count)

	assert.Equal(t, http.StatusBadRequest, doRequest(s, "GET", "/trend?granularity=year").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(s, "GET", "/trend?buckets=0").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(s, "GET", "/trend?buckets=abc").Code)

	// The bucket count sizes an allocation, so an oversized request is
	// rejected instead of honored.
	w = doRequest(s, "GET", "/trend?granularity=day&buckets=2000000000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bucket count must be at most")
}

func TestExportAssets(t *testing.T) {
	s := newTestServer(t)
	loadFixtureSnapshot(t, s)

	t.Run("csv by default", func(t *testing.T) {
		w := doRequest(s, "GET", "/export")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 4) // header + 3 assets
		assert.True(t, strings.HasPrefix(lines[0], "Asset ID,"))
		assert.Contains(t, lines[0], "Status")
	})

	t.Run("respects filters", func(t *testing.T) {
		w := doRequest(s, "GET", "/export?building=Annex")
		require.Equal(t, http.StatusOK, w.Code)
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "A-3")
	})

	t.Run("xlsx", func(t *testing.T) {
		w := doRequest(s, "GET", "/export?format=xlsx")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.NotZero(t, w.Body.Len())
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		w := doRequest(s, "GET", "/export?format=pdf")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
