package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window bounds a history query in time. A nil bound is open.
type Window struct {
	Since *time.Time
	Until *time.Time
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if w.Since != nil && t.Before(*w.Since) {
		return false
	}
	if w.Until != nil && t.After(*w.Until) {
		return false
	}
	return true
}

// ParseWindow parses --since/--until arguments relative to now.
// It returns nil when both are empty.
func ParseWindow(since, until string, now time.Time) (*Window, error) {
	if since == "" && until == "" {
		return nil, nil
	}

	w := &Window{}
	if since != "" {
		t, err := parseInstant(since, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --since value %q: %w", since, err)
		}
		w.Since = &t
	}
	if until != "" {
		t, err := parseInstant(until, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --until value %q: %w", until, err)
		}
		w.Until = &t
	}
	if w.Since != nil && w.Until != nil && w.Until.Before(*w.Since) {
		return nil, fmt.Errorf("--until %s is before --since %s", until, since)
	}
	return w, nil
}

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseInstant reads an age such as "90m", "2h", "3d" or "1w", or an absolute timestamp.
func parseInstant(s string, now time.Time) (time.Time, error) {
	if age, ok := parseAge(s); ok {
		return now.Add(-age), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected an age (30m, 2h, 1d, 1w) or a timestamp (2006-01-02, 2006-01-02T15:04, RFC3339)")
}

func parseAge(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, false
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}
	return time.Duration(n) * unit, true
}
