package engine

import "strings"

// Filter is a conjunctive predicate set over classified assets. The zero
// value matches everything.
type Filter struct {
	Building string   // exact building match when non-empty
	Statuses []Status // membership when non-empty
	Query    string   // case-insensitive substring across identifier fields
}

// Match reports whether one asset satisfies every configured predicate.
func (f Filter) Match(a ClassifiedAsset) bool {
	if f.Building != "" && a.Building != f.Building {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if a.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hit := false
		for _, field := range []string{a.AssetID, a.RFIDTag, a.Building, a.Room, a.CheckedOutTo} {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Apply returns a new filtered slice; the source set is never mutated.
func (f Filter) Apply(assets []ClassifiedAsset) []ClassifiedAsset {
	out := make([]ClassifiedAsset, 0, len(assets))
	for _, a := range assets {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
