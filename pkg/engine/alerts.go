package engine

import "fmt"

// Thresholds configures the alert rules, in whole days.
type Thresholds struct {
	LongCheckoutDays int `json:"long_checkout_days" yaml:"long_checkout_days"`
	StaleUpdateDays  int `json:"stale_update_days" yaml:"stale_update_days"`
}

// DefaultThresholds returns the standard rule configuration: long-checkout at
// 30 days, stale-update at 90 days.
func DefaultThresholds() Thresholds {
	return Thresholds{LongCheckoutDays: 30, StaleUpdateDays: 90}
}

// Validate rejects an unusable configuration before any row processing.
func (t Thresholds) Validate() error {
	if t.LongCheckoutDays <= 0 {
		return &ConfigError{Field: "long_checkout_days", Reason: "must be a positive day count"}
	}
	if t.StaleUpdateDays <= 0 {
		return &ConfigError{Field: "stale_update_days", Reason: "must be a positive day count"}
	}
	return nil
}

// Evaluate applies the fixed rule set to one classified asset. The rules are
// independent: an asset may trigger several. Rule order 1-2-3 fixes the output
// ordering; it never short-circuits.
func (t Thresholds) Evaluate(a ClassifiedAsset) []Alert {
	var alerts []Alert

	// Rule 1: long checkout, severity scaling linearly with overshoot.
	if a.Status.involvesCheckout() && a.DaysCheckedOut != nil && *a.DaysCheckedOut > t.LongCheckoutDays {
		sev := SeverityWarning
		if *a.DaysCheckedOut > 2*t.LongCheckoutDays {
			sev = SeverityCritical
		}
		alerts = append(alerts, Alert{
			AssetID:  a.AssetID,
			Kind:     AlertLongCheckout,
			Severity: sev,
			Message:  fmt.Sprintf("checked out for %d days (threshold %d)", *a.DaysCheckedOut, t.LongCheckoutDays),
		})
	}

	// Rule 2: stale record.
	if a.DaysSinceUpdate > t.StaleUpdateDays {
		alerts = append(alerts, Alert{
			AssetID:  a.AssetID,
			Kind:     AlertStaleUpdate,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("not updated for %d days (threshold %d)", a.DaysSinceUpdate, t.StaleUpdateDays),
		})
	}

	// Rule 3: an inactive asset still marked checked out is itself the anomaly,
	// regardless of duration.
	if a.Status == StatusInactiveCheckedOut {
		alerts = append(alerts, Alert{
			AssetID:  a.AssetID,
			Kind:     AlertInactiveButCheckedOut,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("inactive asset still checked out to %s", a.CheckedOutTo),
		})
	}

	return alerts
}

// EvaluateAll runs Evaluate over the whole classified set, preserving record
// order so repeated passes yield identical output.
func (t Thresholds) EvaluateAll(assets []ClassifiedAsset) []Alert {
	alerts := []Alert{}
	for _, a := range assets {
		alerts = append(alerts, t.Evaluate(a)...)
	}
	return alerts
}
