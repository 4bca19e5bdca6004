package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quantity int64
		minStock int64
		current  PartStatus
		want     PartStatus
	}{
		{
			name:     "zero stock is OUT_OF_STOCK",
			quantity: 0,
			minStock: 5,
			want:     PartStatusOutOfStock,
		},
		{
			name:     "at threshold is LOW_STOCK",
			quantity: 5,
			minStock: 5,
			want:     PartStatusLowStock,
		},
		{
			name:     "below threshold is LOW_STOCK",
			quantity: 2,
			minStock: 5,
			want:     PartStatusLowStock,
		},
		{
			name:     "above threshold is AVAILABLE",
			quantity: 6,
			minStock: 5,
			want:     PartStatusAvailable,
		},
		{
			name:     "zero threshold with stock is AVAILABLE",
			quantity: 1,
			minStock: 0,
			want:     PartStatusAvailable,
		},
		{
			name:     "discontinued survives restock",
			quantity: 100,
			minStock: 5,
			current:  PartStatusDiscontinued,
			want:     PartStatusDiscontinued,
		},
		{
			name:     "discontinued survives sell-out",
			quantity: 0,
			minStock: 5,
			current:  PartStatusDiscontinued,
			want:     PartStatusDiscontinued,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DeriveStatus(tt.quantity, tt.minStock, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}
