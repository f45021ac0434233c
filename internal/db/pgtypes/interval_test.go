package pgtypes

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      any
		want     time.Duration
		wantNull bool
		wantErr  bool
	}{
		{
			name:     "nil is NULL",
			src:      nil,
			wantNull: true,
		},
		{
			name: "pgtype interval microseconds",
			src:  pgtype.Interval{Microseconds: int64(90 * time.Minute / time.Microsecond), Valid: true},
			want: 90 * time.Minute,
		},
		{
			name: "pgtype interval with days",
			src:  pgtype.Interval{Days: 2, Valid: true},
			want: 48 * time.Hour,
		},
		{
			name:    "unsupported type",
			src:     42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var i Interval
			err := i.Scan(tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNull {
				assert.False(t, i.Valid)
				return
			}
			assert.True(t, i.Valid)
			assert.Equal(t, tt.want, i.Duration)
		})
	}
}

func TestIntervalValue(t *testing.T) {
	t.Parallel()

	v, err := NewInterval(10 * time.Minute).Value()
	require.NoError(t, err)
	require.IsType(t, pgtype.Interval{}, v)
	assert.Equal(t, int64(10*time.Minute/time.Microsecond), v.(pgtype.Interval).Microseconds)

	v, err = NewNullInterval().Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	i, err := ParseDuration("30m")
	require.NoError(t, err)
	assert.True(t, i.Valid)
	assert.Equal(t, 30*time.Minute, i.Duration)

	i, err = ParseDuration("")
	require.NoError(t, err)
	assert.False(t, i.Valid)

	_, err = ParseDuration("often")
	require.Error(t, err)
}
