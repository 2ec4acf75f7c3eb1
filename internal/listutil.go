package internal

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"tagview-api/pkg/engine"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit    int
	offset   int
	q        string
	sort     string
	building string
	statuses []engine.Status
	badParam string // first unrecognized status value, if any
}

// parseListParams parses limit, offset, q, sort, building, and status from the
// request. Defaults: limit=50 (max 200), offset=0. The status parameter may
// repeat or hold a comma-separated list.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := listParams{
		limit:    limit,
		offset:   offset,
		q:        strings.TrimSpace(values.Get("q")),
		sort:     strings.TrimSpace(values.Get("sort")),
		building: strings.TrimSpace(values.Get("building")),
	}

	for _, raw := range values["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status, ok := engine.ParseStatus(part)
			if !ok {
				if params.badParam == "" {
					params.badParam = part
				}
				continue
			}
			params.statuses = append(params.statuses, status)
		}
	}

	return params
}

// assetSortKeys maps incoming sort keys to comparison functions. Input sort is
// comma-separated; prefix with '-' for descending. Unknown keys are skipped.
// Default order is asset_id ascending.
var assetSortKeys = map[string]func(a, b engine.ClassifiedAsset) int{
	"asset_id": func(a, b engine.ClassifiedAsset) int { return strings.Compare(a.AssetID, b.AssetID) },
	"building": func(a, b engine.ClassifiedAsset) int { return strings.Compare(a.Building, b.Building) },
	"room":     func(a, b engine.ClassifiedAsset) int { return strings.Compare(a.Room, b.Room) },
	"status":   func(a, b engine.ClassifiedAsset) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"last_updated": func(a, b engine.ClassifiedAsset) int {
		switch {
		case a.LastUpdated.Before(b.LastUpdated):
			return -1
		case a.LastUpdated.After(b.LastUpdated):
			return 1
		}
		return 0
	},
	"days_checked_out": func(a, b engine.ClassifiedAsset) int {
		return daysOrZero(a.DaysCheckedOut) - daysOrZero(b.DaysCheckedOut)
	},
	"days_since_update": func(a, b engine.ClassifiedAsset) int {
		return a.DaysSinceUpdate - b.DaysSinceUpdate
	},
}

func daysOrZero(d *int) int {
	if d == nil {
		return 0
	}
	return *d
}

// sortAssets orders assets in place by the given sort expression using the
// whitelist above.
func sortAssets(assets []engine.ClassifiedAsset, sortParam string) {
	type clause struct {
		cmp  func(a, b engine.ClassifiedAsset) int
		desc bool
	}

	var clauses []clause
	for _, raw := range strings.Split(sortParam, ",") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		desc := false
		if strings.HasPrefix(s, "-") {
			desc = true
			s = strings.TrimPrefix(s, "-")
		}
		if cmp, ok := assetSortKeys[s]; ok {
			clauses = append(clauses, clause{cmp: cmp, desc: desc})
		}
	}
	if len(clauses) == 0 {
		clauses = []clause{{cmp: assetSortKeys["asset_id"]}}
	}

	sort.SliceStable(assets, func(i, j int) bool {
		for _, c := range clauses {
			v := c.cmp(assets[i], assets[j])
			if v == 0 {
				continue
			}
			if c.desc {
				return v > 0
			}
			return v < 0
		}
		return false
	})
}

// paginate slices a list by offset and limit without going out of bounds.
func paginate(assets []engine.ClassifiedAsset, offset, limit int) []engine.ClassifiedAsset {
	if offset >= len(assets) {
		return []engine.ClassifiedAsset{}
	}
	end := offset + limit
	if end > len(assets) {
		end = len(assets)
	}
	return assets[offset:end]
}
