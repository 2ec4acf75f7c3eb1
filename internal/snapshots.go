package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tagview-api/pkg/engine"
	"tagview-api/pkg/importer"
)

// listResponse is the standard paginated list envelope.
type listResponse struct {
	Items  interface{} `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// snapshotFromRequest resolves which snapshot a read endpoint operates on: the
// explicit ?snapshot=<id> if given, otherwise the most recently loaded one.
func (s *Server) snapshotFromRequest(w http.ResponseWriter, r *http.Request) (*engine.Snapshot, bool) {
	if raw := strings.TrimSpace(r.URL.Query().Get("snapshot")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid snapshot id", http.StatusBadRequest)
			return nil, false
		}
		snap, ok := s.Store.Get(id)
		if !ok {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return nil, false
		}
		return snap, true
	}

	snap, ok := s.Store.Latest()
	if !ok {
		http.Error(w, "no snapshot loaded", http.StatusNotFound)
		return nil, false
	}
	return snap, true
}

// listSnapshots handles GET /snapshots
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps := s.Store.List()
	writeJSON(w, http.StatusOK, listResponse{
		Items:  snaps,
		Total:  len(snaps),
		Limit:  len(snaps),
		Offset: 0,
	})
}

// getSnapshot handles GET /snapshots/{id}
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid snapshot id", http.StatusBadRequest)
		return
	}
	snap, ok := s.Store.Get(id)
	if !ok {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// deleteSnapshot handles DELETE /snapshots/{id}
func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid snapshot id", http.StatusBadRequest)
		return
	}
	if !s.Store.Delete(id) {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// filteredAssets applies the common filter parameters to a snapshot's records.
func filteredAssets(snap *engine.Snapshot, params listParams) []engine.ClassifiedAsset {
	filter := engine.Filter{
		Building: params.building,
		Statuses: params.statuses,
		Query:    params.q,
	}
	assets := filter.Apply(snap.Records)
	sortAssets(assets, params.sort)
	return assets
}

// listSnapshotAssets handles GET /assets with filters, sorting, and pagination
func (s *Server) listSnapshotAssets(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}

	params := parseListParams(r)
	if params.badParam != "" {
		http.Error(w, fmt.Sprintf("unknown status %q", params.badParam), http.StatusBadRequest)
		return
	}

	assets := filteredAssets(snap, params)
	page := paginate(assets, params.offset, params.limit)

	writeJSON(w, http.StatusOK, listResponse{
		Items:  page,
		Total:  len(assets),
		Limit:  params.limit,
		Offset: params.offset,
	})
}

// listAlerts handles GET /alerts, optionally filtered by kind and severity
func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}

	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	severity := strings.TrimSpace(r.URL.Query().Get("severity"))

	alerts := make([]engine.Alert, 0, len(snap.Alerts))
	for _, a := range snap.Alerts {
		if kind != "" && !strings.EqualFold(string(a.Kind), kind) {
			continue
		}
		if severity != "" && !strings.EqualFold(string(a.Severity), severity) {
			continue
		}
		alerts = append(alerts, a)
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:  alerts,
		Total:  len(alerts),
		Limit:  len(alerts),
		Offset: 0,
	})
}

// listWarnings handles GET /warnings
func (s *Server) listWarnings(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:  snap.Warnings,
		Total:  len(snap.Warnings),
		Limit:  len(snap.Warnings),
		Offset: 0,
	})
}

// getSummary handles GET /summary
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

// getTrend handles GET /trend?granularity=day|week|month&buckets=n
func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}

	granularity := engine.GranularityMonth
	if raw := strings.TrimSpace(r.URL.Query().Get("granularity")); raw != "" {
		granularity = engine.Granularity(strings.ToLower(raw))
	}

	buckets := 6
	if raw := strings.TrimSpace(r.URL.Query().Get("buckets")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid bucket count", http.StatusBadRequest)
			return
		}
		buckets = v
	}

	points, err := engine.UpdateRecency(snap.Records, snap.Now, granularity, buckets)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"granularity": granularity,
		"points":      points,
	})
}

// exportAssets handles GET /export?format=csv|xlsx with the same filters as
// the asset list, minus pagination: an export is always the full filtered view.
func (s *Server) exportAssets(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFromRequest(w, r)
	if !ok {
		return
	}

	params := parseListParams(r)
	if params.badParam != "" {
		http.Error(w, fmt.Sprintf("unknown status %q", params.badParam), http.StatusBadRequest)
		return
	}

	table := engine.ExportTable(filteredAssets(snap, params))

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="assets.csv"`)
		if err := importer.WriteCSV(w, table); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case "xlsx":
		data, err := importer.BuildXLSX(table, "Assets")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="assets.xlsx"`)
		w.Write(data)
	default:
		http.Error(w, fmt.Sprintf("unsupported export format %q", format), http.StatusBadRequest)
	}
}
