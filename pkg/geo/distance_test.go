package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		a        Point
		b        Point
		expected float64
	}{
		{
			name:     "same point",
			a:        Point{Lon: 3.05, Lat: 36.75},
			b:        Point{Lon: 3.05, Lat: 36.75},
			expected: 0,
		},
		{
			name: "algiers to oran",
			a:    Point{Lon: 3.0588, Lat: 36.7538},
			b:    Point{Lon: -0.6331, Lat: 35.6987},
			// Известное расстояние ~355 км
			expected: 355.66,
		},
		{
			name:     "one degree of latitude",
			a:        Point{Lon: 0, Lat: 0},
			b:        Point{Lon: 0, Lat: 1},
			expected: 111.19,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceKm(tt.a, tt.b), 0.5)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Lon: 3.0588, Lat: 36.7538}
	b := Point{Lon: 2.3522, Lat: 48.8566}

	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}

func TestDistanceKm_RoundedToTwoDecimals(t *testing.T) {
	a := Point{Lon: 3.0588, Lat: 36.7538}
	b := Point{Lon: 3.1588, Lat: 36.8538}

	d := DistanceKm(a, b)
	assert.Equal(t, math.Round(d*100)/100, d)
}
