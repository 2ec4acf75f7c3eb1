package engine

import "time"

// Snapshot is one fully processed upload: the immutable classified set, its
// alerts, the warnings report, and the aggregate summary. Records are never
// mutated after classification; filtering produces new views.
type Snapshot struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Now        time.Time         `json:"now"`
	LoadedAt   time.Time         `json:"loaded_at"`
	Thresholds Thresholds        `json:"thresholds"`
	Records    []ClassifiedAsset `json:"-"`
	Alerts     []Alert           `json:"-"`
	Warnings   []RowWarning      `json:"-"`
	Summary    Summary           `json:"summary"`
}

// BuildSnapshot runs the whole synchronous pipeline over one raw table:
// Normalize -> Classify -> Evaluate -> Aggregate. The reference instant is
// injected by the caller so every duration is deterministic and reproducible.
// ID, Name, and LoadedAt are assigned by the owner of the snapshot.
func BuildSnapshot(table *RawTable, now time.Time, thresholds Thresholds) (*Snapshot, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	records, warnings, err := Normalize(table)
	if err != nil {
		return nil, err
	}

	classified := ClassifyAll(records, now)
	alerts := thresholds.EvaluateAll(classified)

	return &Snapshot{
		Now:        now.UTC(),
		Thresholds: thresholds,
		Records:    classified,
		Alerts:     alerts,
		Warnings:   warnings,
		Summary:    Aggregate(classified, alerts),
	}, nil
}
