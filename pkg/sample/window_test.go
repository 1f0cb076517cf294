package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name     string
		unit     Unit
		lookback int
		wantErr  error
	}{
		{
			name:     "valid day window",
			unit:     UnitDay,
			lookback: 3,
		},
		{
			name:     "valid hour window",
			unit:     UnitHour,
			lookback: 12,
		},
		{
			name:     "zero lookback rejected",
			unit:     UnitDay,
			lookback: 0,
			wantErr:  ErrInvalidLookback,
		},
		{
			name:     "negative lookback rejected",
			unit:     UnitDay,
			lookback: -5,
			wantErr:  ErrInvalidLookback,
		},
		{
			name:     "unknown unit rejected",
			unit:     Unit("fortnight"),
			lookback: 1,
			wantErr:  ErrInvalidUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.unit, tt.lookback)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, w)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.unit, w.Unit)
			assert.Equal(t, tt.lookback, w.Lookback)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		spec         string
		wantUnit     Unit
		wantLookback int
		wantErr      error
	}{
		{
			name:         "long form",
			spec:         "3 day",
			wantUnit:     UnitDay,
			wantLookback: 3,
		},
		{
			name:         "plural form",
			spec:         "3 days",
			wantUnit:     UnitDay,
			wantLookback: 3,
		},
		{
			name:         "hours",
			spec:         "12 hour",
			wantUnit:     UnitHour,
			wantLookback: 12,
		},
		{
			name:         "short form days",
			spec:         "3d",
			wantUnit:     UnitDay,
			wantLookback: 3,
		},
		{
			name:         "short form hours",
			spec:         "6h",
			wantUnit:     UnitHour,
			wantLookback: 6,
		},
		{
			name:         "compact long unit",
			spec:         "2week",
			wantUnit:     UnitWeek,
			wantLookback: 2,
		},
		{
			name:         "uppercase normalized",
			spec:         "3 DAY",
			wantUnit:     UnitDay,
			wantLookback: 3,
		},
		{
			name:         "surrounding whitespace",
			spec:         "  1 month ",
			wantUnit:     UnitMonth,
			wantLookback: 1,
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: ErrInvalidWindowSpec,
		},
		{
			name:    "zero lookback",
			spec:    "0 day",
			wantErr: ErrInvalidLookback,
		},
		{
			name:    "negative lookback",
			spec:    "-3 day",
			wantErr: ErrInvalidLookback,
		},
		{
			name:    "unknown unit",
			spec:    "3 lightyears",
			wantErr: ErrInvalidUnit,
		},
		{
			name:    "unit only",
			spec:    "day",
			wantErr: ErrInvalidWindowSpec,
		},
		{
			name:    "number only",
			spec:    "3",
			wantErr: ErrInvalidWindowSpec,
		},
		{
			name:    "too many fields",
			spec:    "3 day ago",
			wantErr: ErrInvalidWindowSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Parse(tt.spec)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUnit, w.Unit)
			assert.Equal(t, tt.wantLookback, w.Lookback)
		})
	}
}

func TestWindowString(t *testing.T) {
	w, err := NewWindow(UnitDay, 3)
	require.NoError(t, err)
	assert.Equal(t, "3 day", w.String())
}
