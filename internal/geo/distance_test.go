package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKM(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKM(8.2833, 77.3167, 8.2833, 77.3167))
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// 1 degree of latitude is ~111.19 km everywhere
		d := HaversineKM(10.0, 77.0, 11.0, 77.0)
		assert.InDelta(t, 111.19, d, 0.1)
	})

	t.Run("symmetry", func(t *testing.T) {
		a := HaversineKM(8.2833, 77.3167, 8.5241, 76.9366)
		b := HaversineKM(8.5241, 76.9366, 8.2833, 77.3167)
		assert.InDelta(t, a, b, 1e-9)
		assert.Greater(t, a, 10.0)
	})
}

func TestCheckFence(t *testing.T) {
	sites := []Site{
		{Name: "estate", Lat: 8.2833, Lon: 77.3167},
		{Name: "plant", Lat: 8.5241, Lon: 76.9366},
	}

	t.Run("at a site center", func(t *testing.T) {
		res := CheckFence(8.2833, 77.3167, sites, 5)
		assert.True(t, res.Inside)
		assert.Equal(t, "estate", res.NearestSite)
		assert.Equal(t, 0.0, res.DistanceKM)
	})

	t.Run("near the other site", func(t *testing.T) {
		res := CheckFence(8.5250, 76.9370, sites, 5)
		assert.True(t, res.Inside)
		assert.Equal(t, "plant", res.NearestSite)
	})

	t.Run("outside every fence", func(t *testing.T) {
		// ~1 degree north of both sites
		res := CheckFence(9.5, 77.0, sites, 5)
		assert.False(t, res.Inside)
		assert.Greater(t, res.DistanceKM, 5.0)
	})

	t.Run("no sites configured", func(t *testing.T) {
		res := CheckFence(8.0, 77.0, nil, 5)
		assert.True(t, res.Inside)
		assert.Equal(t, 0.0, res.DistanceKM)
	})
}
