package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		active       bool
		checkedOutTo string
		want         Status
	}{
		{true, "", StatusAvailable},
		{true, "Jane Doe", StatusCheckedOut},
		{false, "", StatusInactive},
		{false, "Jane Doe", StatusInactiveCheckedOut},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.active, tt.checkedOutTo),
			"active=%v checkedOutTo=%q", tt.active, tt.checkedOutTo)
	}
}

func TestClassifyAllTemporalMetrics(t *testing.T) {
	now := time.Date(2025, 9, 22, 12, 0, 0, 0, time.UTC)
	checkOut := now.AddDate(0, 0, -45)
	updated := now.AddDate(0, 0, -10)

	records := []AssetRecord{
		{AssetID: "A1", CheckedOutTo: "Jane Doe", CheckOutDate: &checkOut, LastUpdated: updated, Active: true},
		{AssetID: "A2", LastUpdated: updated, Active: true},
		// Checked out but the check-out date was unparseable upstream.
		{AssetID: "A3", CheckedOutTo: "John Roe", LastUpdated: updated, Active: true},
		// Available assets never carry a checkout age, even with a date present.
		{AssetID: "A4", CheckOutDate: &checkOut, LastUpdated: updated, Active: true},
	}

	classified := ClassifyAll(records, now)
	require.Len(t, classified, 4)

	require.NotNil(t, classified[0].DaysCheckedOut)
	assert.Equal(t, 45, *classified[0].DaysCheckedOut)
	assert.Equal(t, 10, classified[0].DaysSinceUpdate)

	assert.Nil(t, classified[1].DaysCheckedOut)
	assert.Nil(t, classified[2].DaysCheckedOut)
	assert.Equal(t, StatusCheckedOut, classified[2].Status)
	assert.Nil(t, classified[3].DaysCheckedOut)
	assert.Equal(t, StatusAvailable, classified[3].Status)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("checkedout")
	require.True(t, ok)
	assert.Equal(t, StatusCheckedOut, st)

	_, ok = ParseStatus("Lost")
	assert.False(t, ok)
}
