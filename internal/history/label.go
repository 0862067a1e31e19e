package history

import (
	"time"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// NoDateLabel stands in for a missing start date.
const NoDateLabel = "未設定日期"

// Label returns the display name of an entry in the local time zone.
func Label(e types.HistoryEntry) string {
	return LabelIn(e, time.Local)
}

// LabelIn returns the display name of an entry:
//
//	"<name> (<date time>)"  named, with a readable createdAt
//	"<name>"                named, without one
//	"<startDate> - <company>" otherwise
func LabelIn(e types.HistoryEntry, loc *time.Location) string {
	if e.QuotationName == "" {
		start := e.StartDate
		if start == "" {
			start = NoDateLabel
		}
		return start + " - " + e.Company
	}

	if e.CreatedAt == "" {
		return e.QuotationName
	}
	created, err := time.Parse(time.RFC3339, e.CreatedAt)
	if err != nil {
		return e.QuotationName
	}
	return e.QuotationName + " (" + formatDateTime(created.In(loc)) + ")"
}

// formatDateTime renders t as zh-TW writes a 12-hour date time,
// e.g. "2024/03/09 下午02:05".
func formatDateTime(t time.Time) string {
	period := "上午"
	if t.Hour() >= 12 {
		period = "下午"
	}
	return t.Format("2006/01/02 ") + period + t.Format("03:04")
}
