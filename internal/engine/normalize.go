package engine

import (
	"strings"
	"time"

	"github.com/gorushbn/pharmacydash/internal/model"
)

const (
	fallbackNA = "N/A"

	dayKeyLayout = "2006-01-02"
)

// upstream mixes ISO-8601 timestamps with "DD-MM-YYYY h:mm A" strings, so
// parsing tries layouts in a fixed order and reports failure instead of
// erroring out.
var flexibleLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006 3:04 PM",
	"02-01-2006 15:04",
	"02-01-2006",
}

// ParseFlexibleDate parses the date formats seen in upstream order records.
// ok is false when no layout matches; callers keep the raw string then.
func ParseFlexibleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DayKey returns the YYYY-MM-DD grouping key for a raw date string and
// whether the date could be parsed.
func DayKey(raw string) (string, bool) {
	t, ok := ParseFlexibleDate(raw)
	if !ok {
		return "", false
	}
	return t.Format(dayKeyLayout), true
}

// FormatDateTime renders a raw date string for display, falling back to the
// raw value when it cannot be parsed. Absent dates render as N/A.
func FormatDateTime(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return fallbackNA
	}

	t, ok := ParseFlexibleDate(raw)
	if !ok {
		return raw
	}

	return t.Format("Jan 02, 2006 3:04 PM")
}

// Normalize substitutes presentation fallbacks for absent optional fields.
// Status semantics are never touched, only rendering defaults.
func Normalize(o model.Order) model.Order {
	if strings.TrimSpace(o.ReceiverName) == "" {
		o.ReceiverName = fallbackNA
	}
	if strings.TrimSpace(o.ReceiverAddress) == "" {
		o.ReceiverAddress = fallbackNA
	}
	if strings.TrimSpace(o.ReceiverPhoneNumber) == "" {
		o.ReceiverPhoneNumber = fallbackNA
	}
	if strings.TrimSpace(o.DOTrackingNumber) == "" {
		o.DOTrackingNumber = fallbackNA
	}
	if strings.TrimSpace(o.PatientNumber) == "" {
		o.PatientNumber = fallbackNA
	}
	if strings.TrimSpace(o.Area) == "" {
		o.Area = fallbackNA
	}

	o.Logs = visibleLogs(o.Logs)

	return o
}

// NormalizeAll normalizes every order, preserving input order.
func NormalizeAll(orders []model.Order) []model.Order {
	out := make([]model.Order, len(orders))
	for i, o := range orders {
		out[i] = Normalize(o)
	}
	return out
}

// visibleLogs drops system-authored audit entries, which are upstream noise
// for the dashboard views.
func visibleLogs(logs []model.OrderLog) []model.OrderLog {
	if len(logs) == 0 {
		return logs
	}

	out := make([]model.OrderLog, 0, len(logs))
	for _, l := range logs {
		if strings.EqualFold(strings.TrimSpace(l.CreatedBy), "system") {
			continue
		}
		out = append(out, l)
	}
	return out
}
