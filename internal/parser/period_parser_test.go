package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", got)

	for _, bad := range []string{"30-08-2026", "2026-8-30", "2026-02-30", "today", ""} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseWeek(t *testing.T) {
	got, err := ParseWeek("2026-W07")
	require.NoError(t, err)
	assert.Equal(t, "2026-W07", got)

	for _, bad := range []string{"2026-W54", "2026-W00", "2026-07", "W07", ""} {
		_, err := ParseWeek(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2026-08")
	require.NoError(t, err)
	assert.Equal(t, "2026-08", got)

	for _, bad := range []string{"2026-13", "2026-8", "08-2026", ""} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("2026-01-01", "2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", start)
	assert.Equal(t, "2026-06-30", end)

	_, _, err = ParseRange("2026-06-30", "2026-01-01")
	assert.Error(t, err, "start after end")

	_, _, err = ParseRange("bad", "2026-01-01")
	assert.Error(t, err)

	// Single-day range is valid.
	_, _, err = ParseRange("2026-03-15", "2026-03-15")
	assert.NoError(t, err)
}
