package engine

import (
	"fmt"
	"strings"
)

// Canonical field keys used throughout normalization.
const (
	fieldAssetID      = "asset_id"
	fieldRFIDTag      = "rfid_tag"
	fieldBuilding     = "building"
	fieldRoom         = "room"
	fieldCheckedOutTo = "checked_out_to"
	fieldCheckOutDate = "check_out_date"
	fieldDateAdded    = "date_added"
	fieldLastUpdated  = "last_updated"
	fieldActive       = "active"
)

// columnSynonyms maps each canonical field to the header spellings it accepts.
// Matching is case- and whitespace-insensitive.
var columnSynonyms = map[string][]string{
	fieldAssetID:      {"asset id", "assetid", "asset number", "asset"},
	fieldRFIDTag:      {"rfid tag id", "rfid tag", "tag id", "rfid"},
	fieldBuilding:     {"building", "location", "site", "facility"},
	fieldRoom:         {"room name", "room"},
	fieldCheckedOutTo: {"checked out to", "assigned to", "assignee", "user"},
	fieldCheckOutDate: {"check out date", "checkout date", "checked out date", "out date"},
	fieldDateAdded:    {"date added", "added"},
	fieldLastUpdated:  {"last updated", "last update", "updated", "last modified"},
	fieldActive:       {"active", "is active"},
}

// requiredFields must resolve to a header column or the whole batch is
// rejected with a SchemaError.
var requiredFields = []string{fieldAssetID, fieldLastUpdated}

// canonicalHeader lowercases a header cell and collapses interior whitespace.
func canonicalHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// resolveColumns maps canonical fields to the actual column names present in
// the header. Unknown extra columns are ignored, not errors.
func resolveColumns(columns []string) map[string]string {
	byHeader := make(map[string]string, len(columns))
	for _, col := range columns {
		key := canonicalHeader(col)
		if key == "" {
			continue
		}
		if _, dup := byHeader[key]; !dup {
			byHeader[key] = col
		}
	}

	resolved := make(map[string]string, len(columnSynonyms))
	for field, synonyms := range columnSynonyms {
		for _, syn := range synonyms {
			if col, ok := byHeader[syn]; ok {
				resolved[field] = col
				break
			}
		}
	}
	return resolved
}

// parseActiveFlag interprets permissive truthy/falsy text variants. The
// second result reports whether the value was recognized; unrecognized
// non-empty values default to active and warrant a warning.
func parseActiveFlag(s string) (active, recognized bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1", "active":
		return true, true
	case "no", "n", "false", "f", "0", "inactive":
		return false, true
	default:
		return true, false
	}
}

// Normalize validates and coerces a raw table into canonical AssetRecords
// plus per-row warnings. Recoverable issues never abort the batch; only the
// total absence of a required column does. Duplicate asset IDs keep the row
// with the newest last-updated timestamp (earlier row wins an exact tie) and
// the losers are reported, never silently merged.
func Normalize(table *RawTable) ([]AssetRecord, []RowWarning, error) {
	cols := resolveColumns(table.Columns)

	var missing []string
	for _, field := range requiredFields {
		if _, ok := cols[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	cell := func(row Row, field string) string {
		col, ok := cols[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	warnings := []RowWarning{}
	records := make([]AssetRecord, 0, len(table.Rows))
	byID := make(map[string]int, len(table.Rows)) // asset id -> index into records
	rowOf := make(map[string]int, len(table.Rows))

	for i, row := range table.Rows {
		rowNum := i + 1

		id := cell(row, fieldAssetID)
		if id == "" {
			warnings = append(warnings, RowWarning{Row: rowNum, Reason: "missing asset id; row excluded"})
			continue
		}

		rawUpdated := cell(row, fieldLastUpdated)
		if rawUpdated == "" {
			warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id, Reason: "missing last updated timestamp; row excluded"})
			continue
		}
		lastUpdated, ok := ParseInstant(rawUpdated)
		if !ok {
			warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id,
				Reason: fmt.Sprintf("unparseable last updated %q; row excluded", rawUpdated)})
			continue
		}

		rec := AssetRecord{
			AssetID:      id,
			RFIDTag:      cell(row, fieldRFIDTag),
			Building:     cell(row, fieldBuilding),
			Room:         cell(row, fieldRoom),
			CheckedOutTo: cell(row, fieldCheckedOutTo),
			LastUpdated:  lastUpdated,
		}
		if rec.Building == "" {
			rec.Building = Unknown
		}
		if rec.Room == "" {
			rec.Room = Unknown
		}

		if raw := cell(row, fieldCheckOutDate); raw != "" {
			if t, ok := ParseInstant(raw); ok {
				rec.CheckOutDate = &t
			} else {
				warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id,
					Reason: fmt.Sprintf("unparseable check out date %q; checkout age unavailable", raw)})
			}
		}
		if raw := cell(row, fieldDateAdded); raw != "" {
			if t, ok := ParseInstant(raw); ok {
				rec.DateAdded = &t
			} else {
				warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id,
					Reason: fmt.Sprintf("unparseable date added %q; field dropped", raw)})
			}
		}

		if raw := cell(row, fieldActive); raw == "" {
			rec.Active = true
		} else {
			active, recognized := parseActiveFlag(raw)
			rec.Active = active
			if !recognized {
				warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id,
					Reason: fmt.Sprintf("unrecognized active flag %q; defaulting to active", raw)})
			}
		}

		if prev, dup := byID[id]; dup {
			if rec.LastUpdated.After(records[prev].LastUpdated) {
				warnings = append(warnings, RowWarning{Row: rowOf[id], AssetID: id,
					Reason: "duplicate asset id superseded by a newer row"})
				records[prev] = rec
				rowOf[id] = rowNum
			} else {
				warnings = append(warnings, RowWarning{Row: rowNum, AssetID: id,
					Reason: "duplicate asset id; older or equal row dropped"})
			}
			continue
		}

		byID[id] = len(records)
		rowOf[id] = rowNum
		records = append(records, rec)
	}

	return records, warnings, nil
}
