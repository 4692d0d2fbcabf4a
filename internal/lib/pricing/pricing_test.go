package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	band := Band{Min: 2500, Max: 55000}

	tests := []struct {
		name  string
		base  int
		items int
		tier  ServiceType
		want  int
	}{
		{name: "standard single item", base: 2500, items: 1, tier: Standard, want: 2500},
		{name: "express two items", base: 2500, items: 2, tier: Express, want: 7500},
		{name: "premium three items", base: 2500, items: 3, tier: Premium, want: 16500},
		{name: "floors fractional result", base: 333, items: 1, tier: Express, want: 2500},
		{name: "floors above band minimum", base: 1999, items: 3, tier: Express, want: 8995},
		{name: "clamped to max", base: 2500, items: 20, tier: Premium, want: 55000},
		{name: "clamped to min", base: 100, items: 1, tier: Standard, want: 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.base, tt.items, tt.tier, band)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	band := Band{Min: 0, Max: 1000}

	_, err := Quote(100, 1, ServiceType("OVERNIGHT"), band)
	assert.ErrorIs(t, err, ErrUnknownServiceType)

	_, err = Quote(100, 0, Standard, band)
	assert.ErrorIs(t, err, ErrInvalidItemCount)

	_, err = Quote(100, 1, Standard, Band{Min: 10, Max: 5})
	assert.ErrorIs(t, err, ErrInvalidBand)
}

func TestMultiplier(t *testing.T) {
	m, ok := Multiplier(Premium)
	require.True(t, ok)
	assert.InDelta(t, 2.2, m, 1e-9)

	_, ok = Multiplier("NONE")
	assert.False(t, ok)
}
