package internal

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tagview-api/pkg/engine"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   listParams
	}{
		{
			name:   "defaults",
			target: "/assets",
			want:   listParams{limit: 50, offset: 0},
		},
		{
			name:   "explicit values",
			target: "/assets?limit=10&offset=5&q=scope&sort=-last_updated&building=Main",
			want:   listParams{limit: 10, offset: 5, q: "scope", sort: "-last_updated", building: "Main"},
		},
		{
			name:   "limit capped at 200",
			target: "/assets?limit=1000",
			want:   listParams{limit: 200, offset: 0},
		},
		{
			name:   "garbage numbers fall back to defaults",
			target: "/assets?limit=abc&offset=-3",
			want:   listParams{limit: 50, offset: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseListParams(httptest.NewRequest("GET", tt.target, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListParamsStatuses(t *testing.T) {
	params := parseListParams(httptest.NewRequest("GET", "/assets?status=Available,checkedout&status=Inactive", nil))
	assert.Equal(t, []engine.Status{engine.StatusAvailable, engine.StatusCheckedOut, engine.StatusInactive}, params.statuses)
	assert.Empty(t, params.badParam)

	params = parseListParams(httptest.NewRequest("GET", "/assets?status=Broken", nil))
	assert.Equal(t, "Broken", params.badParam)
	assert.Empty(t, params.statuses)
}

func sortFixture() []engine.ClassifiedAsset {
	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }
	out := 40
	return []engine.ClassifiedAsset{
		{AssetRecord: engine.AssetRecord{AssetID: "B-2", Building: "Annex", LastUpdated: day(10)}, Status: engine.StatusAvailable, DaysSinceUpdate: 12},
		{AssetRecord: engine.AssetRecord{AssetID: "A-1", Building: "Main", LastUpdated: day(20)}, Status: engine.StatusCheckedOut, DaysCheckedOut: &out, DaysSinceUpdate: 2},
		{AssetRecord: engine.AssetRecord{AssetID: "C-3", Building: "Main", LastUpdated: day(1)}, Status: engine.StatusInactive, DaysSinceUpdate: 21},
	}
}

func TestSortAssets(t *testing.T) {
	ids := func(assets []engine.ClassifiedAsset) []string {
		out := make([]string, len(assets))
		for i, a := range assets {
			out[i] = a.AssetID
		}
		return out
	}

	tests := []struct {
		name string
		sort string
		want []string
	}{
		{"default is asset_id ascending", "", []string{"A-1", "B-2", "C-3"}},
		{"descending asset_id", "-asset_id", []string{"C-3", "B-2", "A-1"}},
		{"by last_updated", "last_updated", []string{"C-3", "B-2", "A-1"}},
		{"by days_since_update descending", "-days_since_update", []string{"C-3", "B-2", "A-1"}},
		{"by days_checked_out descending", "-days_checked_out", []string{"A-1", "B-2", "C-3"}},
		{"building then asset_id", "building,asset_id", []string{"B-2", "A-1", "C-3"}},
		{"unknown keys fall back to default", "bogus", []string{"A-1", "B-2", "C-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := sortFixture()
			sortAssets(assets, tt.sort)
			assert.Equal(t, tt.want, ids(assets))
		})
	}
}

func TestPaginate(t *testing.T) {
	assets := sortFixture()

	assert.Len(t, paginate(assets, 0, 2), 2)
	assert.Len(t, paginate(assets, 2, 2), 1)
	assert.Empty(t, paginate(assets, 3, 2))
	assert.Empty(t, paginate(assets, 100, 50))
	assert.Len(t, paginate(assets, 0, 50), 3)
}
