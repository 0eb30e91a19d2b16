package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

const displayTimeFormat = "2006-01-02 15:04"

// 日時フラグに受け付ける形式。タイムゾーンのない形式はローカル時刻として解釈する。
var inputTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range inputTimeFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DDTHH:MM or RFC3339)", s)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayTimeFormat)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
