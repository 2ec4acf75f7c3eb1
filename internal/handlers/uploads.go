// Package handlers holds the multipart upload surface that feeds the snapshot
// pipeline. Read endpoints live with the server; this package owns the one
// write path that parses files.
package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"tagview-api/internal/store"
	"tagview-api/pkg/engine"
	"tagview-api/pkg/importer"
)

// UploadsHandler accepts snapshot files and runs them through the pipeline.
type UploadsHandler struct {
	Store      *store.Store
	Thresholds engine.Thresholds
	MaxBytes   int64

	// Now supplies the reference instant for duration math. Tests pin it;
	// production uses the wall clock.
	Now func() time.Time

	// OnLoad is called once per successfully stored snapshot, for metrics.
	OnLoad func(*engine.Snapshot)
}

// NewUploadsHandler creates a new uploads handler
func NewUploadsHandler(st *store.Store, thresholds engine.Thresholds, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{
		Store:      st,
		Thresholds: thresholds,
		MaxBytes:   maxBytes,
		Now:        time.Now,
	}
}

// UploadSnapshot handles POST /snapshots: a multipart form with a "file" part
// (.xlsx or .csv), an optional "name", and an optional "now" (RFC 3339)
// overriding the reference instant.
func (h *UploadsHandler) UploadSnapshot(w http.ResponseWriter, r *http.Request) {
	// Limit body size
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	// Require multipart
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		http.Error(w, "content-type must be multipart/form-data", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	now := h.Now().UTC()
	if raw := r.FormValue("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "now must be RFC 3339: "+err.Error(), http.StatusBadRequest)
			return
		}
		now = parsed.UTC()
	}

	// File
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isSupported(header) {
		http.Error(w, "only .xlsx and .csv files are accepted", http.StatusBadRequest)
		return
	}

	table, err := importer.ReadSnapshot(file, header.Filename)
	if err != nil {
		http.Error(w, "unreadable snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := engine.BuildSnapshot(table, now, h.Thresholds)
	if err != nil {
		var schemaErr *engine.SchemaError
		if errors.As(err, &schemaErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":           "SCHEMA_MISMATCH",
				"missing_columns": schemaErr.Missing,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap.Name = r.FormValue("name")
	if snap.Name == "" {
		snap.Name = header.Filename
	}
	snap.LoadedAt = h.Now().UTC()

	id := h.Store.Add(snap)
	if h.OnLoad != nil {
		h.OnLoad(snap)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"name":     snap.Name,
		"rows":     len(snap.Records),
		"warnings": len(snap.Warnings),
		"alerts":   len(snap.Alerts),
		"summary":  snap.Summary,
	})
}

// isSupported checks the uploaded file extension against the snapshot formats
func isSupported(h *multipart.FileHeader) bool {
	name := strings.ToLower(h.Filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".csv")
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
