package repository

import (
	"sort"
	"strconv"
	"time"

	"translation_desk/internal/domain/entities"
)

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

func sortQuotes(qs []entities.Quote, s entities.QuoteSort) {
	sort.SliceStable(qs, func(i, j int) bool { return s.Less(qs[i], qs[j]) })
}

// nonNil keeps list fields serialized as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
