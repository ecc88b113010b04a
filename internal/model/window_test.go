package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)

func TestParseWindow_WhenBothEmpty_ShouldReturnNil(t *testing.T) {
	w, err := ParseWindow("", "", refNow)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestParseWindow_WhenGivenAges_ShouldSubtractFromNow(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"30m", refNow.Add(-30 * time.Minute)},
		{"2h", refNow.Add(-2 * time.Hour)},
		{"1d", refNow.Add(-24 * time.Hour)},
		{"1w", refNow.Add(-7 * 24 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, err := ParseWindow(tt.in, "", refNow)
			require.NoError(t, err)
			require.NotNil(t, w.Since)
			assert.True(t, w.Since.Equal(tt.want))
			assert.Nil(t, w.Until)
		})
	}
}

func TestParseWindow_WhenGivenAbsoluteTimestamps_ShouldParseLayouts(t *testing.T) {
	w, err := ParseWindow("2025-08-01", "2025-08-02T10:30", refNow)
	require.NoError(t, err)
	assert.True(t, w.Since.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Until.Equal(time.Date(2025, 8, 2, 10, 30, 0, 0, time.UTC)))
}

func TestParseWindow_WhenUntilBeforeSince_ShouldFail(t *testing.T) {
	_, err := ParseWindow("2025-08-02", "2025-08-01", refNow)
	assert.Error(t, err)
}

func TestParseWindow_WhenGivenGarbage_ShouldNameTheFlag(t *testing.T) {
	_, err := ParseWindow("yesterday", "", refNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")

	_, err = ParseWindow("", "0h", refNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--until")
}

func TestWindowContains_ShouldTreatBoundsAsInclusive(t *testing.T) {
	since := refNow.Add(-time.Hour)
	w := &Window{Since: &since, Until: &refNow}

	assert.True(t, w.Contains(since))
	assert.True(t, w.Contains(refNow))
	assert.False(t, w.Contains(refNow.Add(time.Second)))
	assert.False(t, w.Contains(since.Add(-time.Second)))

	var open *Window
	assert.True(t, open.Contains(time.Time{}))
}
