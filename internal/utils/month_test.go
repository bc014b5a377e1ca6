package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2026年4月")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.April, month)

	year, month, err = ParseMonth(" 2027 年 12 月 ")
	require.NoError(t, err)
	assert.Equal(t, 2027, year)
	assert.Equal(t, time.December, month)

	for _, label := range []string{"", "2026-04", "2026年13月", "2026年0月", "四月", "abc2026年4月def", "xx2026年4月 junk", "12026年4月"} {
		_, _, err := ParseMonth(label)
		assert.ErrorIs(t, err, ErrInvalidMonth, label)
	}
}

func TestNormalizeMonth(t *testing.T) {
	for _, label := range []string{"2026年4月", "2026年04月", " 2026 年 04 月 "} {
		got, err := NormalizeMonth(label)
		require.NoError(t, err, label)
		assert.Equal(t, "2026年4月", got, label)
	}

	_, err := NormalizeMonth("abc2026年4月def")
	assert.ErrorIs(t, err, ErrInvalidMonth)
	assert.False(t, IsValidMonth("abc2026年4月def"))
}

func TestMonthChoices(t *testing.T) {
	now := time.Date(2026, time.November, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2026年12月", "2027年1月", "2027年2月"}, MonthChoices(now))
}
