package engine

import (
	"fmt"
	"sort"
	"time"
)

// LocationCount is one sparse (building, room) cell of the distribution.
type LocationCount struct {
	Building string `json:"building"`
	Room     string `json:"room"`
	Count    int    `json:"count"`
}

// BucketCount is one bar of the checkout-age histogram.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// BuildingRisk ranks a building by its share of anomalous assets, carried over
// from the location risk ranking of the original dashboard.
type BuildingRisk struct {
	Building           string  `json:"building"`
	Total              int     `json:"total"`
	LongCheckout       int     `json:"long_checkout"`
	InactiveCheckedOut int     `json:"inactive_checked_out"`
	RiskScore          float64 `json:"risk_score"`
}

// Summary is the aggregate roll-up of one classified, alert-annotated set.
type Summary struct {
	Total        int               `json:"total"`
	ByStatus     map[Status]int    `json:"by_status"`
	ByBuilding   map[string]int    `json:"by_building"`
	ByRoom       []LocationCount   `json:"by_room"`
	CheckoutAges []BucketCount     `json:"checkout_ages"`
	AlertCounts  map[AlertKind]int `json:"alert_counts"`
	RiskScore    float64           `json:"risk_score"`
	BuildingRisk []BuildingRisk    `json:"building_risk"`
}

var checkoutAgeBuckets = []struct {
	label    string
	min, max int // inclusive; max < 0 means unbounded
}{
	{"0-7", 0, 7},
	{"8-30", 8, 30},
	{"31-90", 31, 90},
	{"91+", 91, -1},
}

// Aggregate folds a classified set plus its alerts into a Summary. It is a
// read-only pass: identical input always yields identical output, and the
// status counts sum to the total record count.
func Aggregate(assets []ClassifiedAsset, alerts []Alert) Summary {
	s := Summary{
		Total:        len(assets),
		ByStatus:     make(map[Status]int),
		ByBuilding:   make(map[string]int),
		AlertCounts:  make(map[AlertKind]int),
		CheckoutAges: make([]BucketCount, len(checkoutAgeBuckets)),
	}
	for i, b := range checkoutAgeBuckets {
		s.CheckoutAges[i] = BucketCount{Bucket: b.label}
	}

	rooms := make(map[string]map[string]int)
	for _, a := range assets {
		s.ByStatus[a.Status]++
		s.ByBuilding[a.Building]++
		if rooms[a.Building] == nil {
			rooms[a.Building] = make(map[string]int)
		}
		rooms[a.Building][a.Room]++

		if a.DaysCheckedOut != nil {
			for i, b := range checkoutAgeBuckets {
				d := *a.DaysCheckedOut
				if d >= b.min && (b.max < 0 || d <= b.max) {
					s.CheckoutAges[i].Count++
					break
				}
			}
		}
	}

	// Sparse (building, room) pairs in a stable order.
	for building, byRoom := range rooms {
		for room, n := range byRoom {
			s.ByRoom = append(s.ByRoom, LocationCount{Building: building, Room: room, Count: n})
		}
	}
	sort.Slice(s.ByRoom, func(i, j int) bool {
		if s.ByRoom[i].Building != s.ByRoom[j].Building {
			return s.ByRoom[i].Building < s.ByRoom[j].Building
		}
		return s.ByRoom[i].Room < s.ByRoom[j].Room
	})

	// Alert-derived metrics. Track per-asset kinds so a building ranking can
	// count assets, not alert lines.
	alertKinds := make(map[string]map[AlertKind]bool)
	for _, al := range alerts {
		s.AlertCounts[al.Kind]++
		if alertKinds[al.AssetID] == nil {
			alertKinds[al.AssetID] = make(map[AlertKind]bool)
		}
		alertKinds[al.AssetID][al.Kind] = true
	}

	if s.Total > 0 {
		pct := func(kind AlertKind) float64 {
			return float64(s.AlertCounts[kind]) / float64(s.Total) * 100
		}
		score := 0.5*pct(AlertInactiveButCheckedOut) + 0.3*pct(AlertStaleUpdate) + 0.2*pct(AlertLongCheckout)
		if score > 100 {
			score = 100
		}
		s.RiskScore = score
	}

	perBuilding := make(map[string]*BuildingRisk)
	for _, a := range assets {
		br := perBuilding[a.Building]
		if br == nil {
			br = &BuildingRisk{Building: a.Building}
			perBuilding[a.Building] = br
		}
		br.Total++
		if alertKinds[a.AssetID][AlertLongCheckout] {
			br.LongCheckout++
		}
		if a.Status == StatusInactiveCheckedOut {
			br.InactiveCheckedOut++
		}
	}
	for _, br := range perBuilding {
		if br.Total > 0 {
			br.RiskScore = (float64(br.InactiveCheckedOut)*0.7 + float64(br.LongCheckout)*0.3) / float64(br.Total) * 100
		}
		s.BuildingRisk = append(s.BuildingRisk, *br)
	}
	sort.Slice(s.BuildingRisk, func(i, j int) bool {
		if s.BuildingRisk[i].RiskScore != s.BuildingRisk[j].RiskScore {
			return s.BuildingRisk[i].RiskScore > s.BuildingRisk[j].RiskScore
		}
		return s.BuildingRisk[i].Building < s.BuildingRisk[j].Building
	})

	return s
}

// Granularity selects the calendar bucket size of the update-recency series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// TrendPoint is one calendar bucket of the update-recency series.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

func periodLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityDay:
		return t.Format("2006-01-02")
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format("2006-01")
	}
}

// maxTrendBuckets bounds the series length; the allocation is proportional to
// n regardless of snapshot size, and a year of daily buckets is the widest
// window any view needs.
const maxTrendBuckets = 366

// UpdateRecency counts assets whose last-updated instant falls in each of the
// last n calendar buckets ending with the bucket containing now. Records
// outside the window are simply not in the series.
func UpdateRecency(assets []ClassifiedAsset, now time.Time, g Granularity, n int) ([]TrendPoint, error) {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
	if n <= 0 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", n)
	}
	if n > maxTrendBuckets {
		return nil, fmt.Errorf("bucket count must be at most %d, got %d", maxTrendBuckets, n)
	}

	points := make([]TrendPoint, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		var t time.Time
		back := n - 1 - i
		switch g {
		case GranularityDay:
			t = now.AddDate(0, 0, -back)
		case GranularityWeek:
			t = now.AddDate(0, 0, -7*back)
		default:
			t = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)
		}
		label := periodLabel(t, g)
		points[i] = TrendPoint{Period: label}
		index[label] = i
	}

	for _, a := range assets {
		if i, ok := index[periodLabel(a.LastUpdated, g)]; ok {
			points[i].Count++
		}
	}
	return points, nil
}
