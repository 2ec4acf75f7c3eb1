package engine

import "time"

// Classify derives the discrete status from the two underlying flags. Pure
// function, no I/O; re-invoked on every classification pass and never cached
// across snapshots.
//
//	active  checked out  ->  status
//	true    false            Available
//	true    true             CheckedOut
//	false   false            Inactive
//	false   true             InactiveCheckedOut
func Classify(active bool, checkedOutTo string) Status {
	checkedOut := checkedOutTo != ""
	switch {
	case active && !checkedOut:
		return StatusAvailable
	case active && checkedOut:
		return StatusCheckedOut
	case !active && !checkedOut:
		return StatusInactive
	default:
		return StatusInactiveCheckedOut
	}
}

// involvesCheckout reports whether a status carries a checkout assignment.
func (s Status) involvesCheckout() bool {
	return s == StatusCheckedOut || s == StatusInactiveCheckedOut
}

// ClassifyAll wraps each record with its derived status and temporal metrics
// relative to the injected now. DaysCheckedOut is set only for checkout
// statuses with a parseable check-out date.
func ClassifyAll(records []AssetRecord, now time.Time) []ClassifiedAsset {
	out := make([]ClassifiedAsset, 0, len(records))
	for _, rec := range records {
		ca := ClassifiedAsset{
			AssetRecord:     rec,
			Status:          Classify(rec.Active, rec.CheckedOutTo),
			DaysSinceUpdate: wholeDaysSince(now, rec.LastUpdated),
		}
		if ca.Status.involvesCheckout() && rec.CheckOutDate != nil {
			days := wholeDaysSince(now, *rec.CheckOutDate)
			ca.DaysCheckedOut = &days
		}
		out = append(out, ca)
	}
	return out
}
