package antenna_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiless/beamforming/antenna"
)

func TestScanGrid(t *testing.T) {
	grid := antenna.ScanGrid(antenna.DefaultScanPoints)
	assert.Len(t, grid, 360)
	assert.InDelta(t, -math.Pi/2, grid[0], 1e-15)
	assert.InDelta(t, math.Pi/2, grid[len(grid)-1], 1e-15)

	step := grid[1] - grid[0]
	for i := 2; i < len(grid); i++ {
		assert.InDelta(t, step, grid[i]-grid[i-1], 1e-12)
	}
}

func TestLinspaceEdges(t *testing.T) {
	assert.Nil(t, antenna.Linspace(0, 1, 0))
	assert.Equal(t, []float64{0}, antenna.ScanGrid(1))
	assert.Equal(t, []float64{-1, 0, 1}, antenna.Linspace(-1, 1, 3))
}

func TestDegrees(t *testing.T) {
	deg := antenna.Degrees([]float64{-math.Pi / 2, 0, math.Pi / 4})
	assert.InDeltaSlice(t, []float64{-90, 0, 45}, deg, 1e-12)
	assert.InDelta(t, math.Pi, antenna.Radian(180), 1e-15)
}
