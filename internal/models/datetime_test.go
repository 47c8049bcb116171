package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	got, err := ParseDateTime(" 01.01.2026 18:00 ", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, "01.01.2026 18:00", FormatDateTime(got, loc))
}

func TestParseDateTimeRejectsOtherFormats(t *testing.T) {
	for _, in := range []string{"2026-01-01", "2026-01-01 18:00", "1.1.2026 18:00", "31.02.2026 10:00", "01.01.2026", ""} {
		_, err := ParseDateTime(in, time.UTC)
		assert.Truef(t, errors.Is(err, ErrInvalidFormat), "input %q: %v", in, err)
	}
}

func TestNormalizeTimeDropsSeconds(t *testing.T) {
	in := time.Date(2026, 3, 4, 5, 6, 7, 8, time.FixedZone("X", 3600))
	assert.Equal(t, time.Date(2026, 3, 4, 4, 6, 0, 0, time.UTC), NormalizeTime(in))
}

func TestNormalizeGroupName(t *testing.T) {
	name, err := NormalizeGroupName("  BandX ")
	require.NoError(t, err)
	assert.Equal(t, "BandX", name)

	for _, in := range []string{"", "   ", "a\nb", strings.Repeat("я", MaxGroupNameLength+1)} {
		_, err := NormalizeGroupName(in)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	}

	_, err = NormalizeGroupName(strings.Repeat("я", MaxGroupNameLength))
	assert.NoError(t, err)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("ADD")
	require.NoError(t, err)
	assert.Equal(t, ActionAdd, a)

	a, err = ParseAction(" delete")
	require.NoError(t, err)
	assert.Equal(t, ActionDelete, a)

	_, err = ParseAction("remove")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.False(t, Action("").Valid())
}
