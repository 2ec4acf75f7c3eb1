// Package engine derives operational state from a single RFID asset snapshot:
// it normalizes raw tabular rows, classifies each asset, evaluates risk rules,
// and produces aggregate views. The engine holds no state of its own; every
// pass is a pure function of the input table, the injected clock, and the
// threshold configuration.
package engine

import (
	"fmt"
	"strings"
	"time"
)

// Status is the derived checkout/activity state of an asset. It is never
// stored independently; it is always recomputed from the underlying flags.
type Status string

const (
	StatusAvailable          Status = "Available"
	StatusCheckedOut         Status = "CheckedOut"
	StatusInactive           Status = "Inactive"
	StatusInactiveCheckedOut Status = "InactiveCheckedOut"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusAvailable, StatusCheckedOut, StatusInactive, StatusInactiveCheckedOut}

// ParseStatus maps user input to a Status, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// Unknown is the sentinel location used when a building or room cell is blank,
// so aggregation keys are total.
const Unknown = "Unknown"

// AssetRecord is the canonical post-normalization record shape.
type AssetRecord struct {
	AssetID      string     `json:"asset_id"`
	RFIDTag      string     `json:"rfid_tag,omitempty"`
	Building     string     `json:"building"`
	Room         string     `json:"room"`
	CheckedOutTo string     `json:"checked_out_to,omitempty"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty"`
	DateAdded    *time.Time `json:"date_added,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
	Active       bool       `json:"active"`
}

// CheckedOut reports whether the record carries a checkout assignment.
func (r AssetRecord) CheckedOut() bool {
	return r.CheckedOutTo != ""
}

// ClassifiedAsset wraps an AssetRecord with its derived status and temporal
// metrics. DaysCheckedOut is present only when the status involves a checkout
// and the check-out date was parseable.
type ClassifiedAsset struct {
	AssetRecord
	Status          Status `json:"status"`
	DaysCheckedOut  *int   `json:"days_checked_out,omitempty"`
	DaysSinceUpdate int    `json:"days_since_update"`
}

// AlertKind identifies which rule produced an alert.
type AlertKind string

const (
	AlertLongCheckout          AlertKind = "LongCheckout"
	AlertStaleUpdate           AlertKind = "StaleUpdate"
	AlertInactiveButCheckedOut AlertKind = "InactiveButCheckedOut"
)

// Severity grades an alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a derived signal attached to one asset by one rule. Alerts are
// recomputed fresh on every evaluation pass; there is no alert history.
type Alert struct {
	AssetID  string    `json:"asset_id"`
	Kind     AlertKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// RowWarning reports a recoverable per-row issue. Warnings are collected and
// returned alongside successful output, never thrown away.
type RowWarning struct {
	Row     int    `json:"row"` // 1-based data row number in the source table
	AssetID string `json:"asset_id,omitempty"`
	Reason  string `json:"reason"`
}

// Row is one raw input row, keyed by the source column names.
type Row map[string]string

// RawTable is the flat tabular snapshot as uploaded: a header plus rows.
// Additional columns beyond the known contract are carried but ignored.
type RawTable struct {
	Columns []string
	Rows    []Row
}

// SchemaError means a required column is missing from the header entirely.
// It is fatal for the batch: no rows are processed.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ConfigError rejects an invalid threshold configuration before any row
// processing happens.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
