package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomStaffList(t *testing.T) {
	staff := GenerateRandomStaffList(5)
	require.Len(t, staff, 5)

	seen := map[string]bool{}
	for _, s := range staff {
		assert.False(t, seen[s], "duplicated staff %s", s)
		seen[s] = true
	}

	assert.Len(t, GenerateRandomStaffList(100), len(commonSurnames))
}

func TestGenerateRandomPreference(t *testing.T) {
	pref, err := GenerateRandomPreference("2026年2月", "佐藤")
	require.NoError(t, err)
	assert.Equal(t, "佐藤", pref.Staff)
	assert.Contains(t, pref.Text, "2/")

	_, err = GenerateRandomPreference("来月", "佐藤")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestGenerateRandomTravel(t *testing.T) {
	travel, err := GenerateRandomTravel("2026年4月", "鈴木")
	require.NoError(t, err)
	require.NotNil(t, travel.Days)
	require.NotNil(t, travel.Dates)
	assert.GreaterOrEqual(t, *travel.Days, int32(1))
	assert.LessOrEqual(t, *travel.Days, int32(3))
}
