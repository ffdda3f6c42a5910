package timezone_test

import (
	"hotel/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, now.Location().String(), timezone.Now().Location().String())
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.NotEmpty(t, timezone.Format(testTime, "2006-01-02 15:04:05 MST"))
	assert.Equal(t, testTime.In(timezone.Now().Location()).Format(time.RFC3339), timezone.Format(testTime, time.RFC3339))

	parsed, err := timezone.Parse(time.DateOnly, "2024-01-01")

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", parsed.Format(time.DateOnly))

	_, err = timezone.Parse(time.DateOnly, "2024-02-30")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "late evening keeps the local date",
			in:   time.Date(2025, 1, 10, 23, 59, 0, 0, jakarta),
			want: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already midnight utc",
			in:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timezone.DateOf(tt.in)

			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestClock(t *testing.T) {
	instant := time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC)

	var clock timezone.Clock = timezone.FixedClock(instant)
	assert.True(t, instant.Equal(clock.Now()))

	before := time.Now().Add(-time.Second)
	assert.True(t, timezone.NewClock().Now().After(before))
}
