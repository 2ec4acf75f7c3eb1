package engine

import (
	"strconv"
	"time"
)

// ExportColumns is the flat export header: the original input contract with
// the derived columns appended, never replacing originals. The original
// portion round-trips back through Normalize.
var ExportColumns = []string{
	"Asset ID",
	"Building",
	"Room Name",
	"RFID Tag ID",
	"Checked Out To",
	"Check Out Date",
	"Date Added",
	"Last Updated",
	"Active",
	"Status",
	"Days Checked Out",
	"Days Since Update",
}

const exportTimeLayout = "2006-01-02 15:04:05"

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

// ExportTable serializes a (typically filtered) classified view as a flat
// tabular structure, header first.
func ExportTable(assets []ClassifiedAsset) [][]string {
	rows := make([][]string, 0, len(assets)+1)
	rows = append(rows, ExportColumns)
	for _, a := range assets {
		active := "Yes"
		if !a.Active {
			active = "No"
		}
		daysOut := ""
		if a.DaysCheckedOut != nil {
			daysOut = strconv.Itoa(*a.DaysCheckedOut)
		}
		rows = append(rows, []string{
			a.AssetID,
			a.Building,
			a.Room,
			a.RFIDTag,
			a.CheckedOutTo,
			formatInstant(a.CheckOutDate),
			formatInstant(a.DateAdded),
			a.LastUpdated.Format(exportTimeLayout),
			active,
			string(a.Status),
			daysOut,
			strconv.Itoa(a.DaysSinceUpdate),
		})
	}
	return rows
}
