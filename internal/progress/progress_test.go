package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected int
	}{
		{"within range", 50, 100, 50},
		{"negative current", -5, 100, 0},
		{"over total", 150, 100, 100},
		{"exactly total", 100, 100, 100},
		{"zero total", 42, 0, 0},
		{"negative total", 42, -10, 0},
		{"zero current", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clamp(tt.current, tt.total))
		})
	}
}

func TestClamp_AlwaysInRange(t *testing.T) {
	for current := -20; current <= 20; current++ {
		for total := 0; total <= 15; total++ {
			got := Clamp(current, total)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, total)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected int
	}{
		{"zero of zero", 0, 0, 0},
		{"complete", 10, 10, 100},
		{"half", 5, 10, 50},
		{"rounds half up", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"rounds exact half up", 1, 200, 1},
		{"over total caps at 100", 500, 400, 100},
		{"negative current", -10, 100, 0},
		{"negative total", 10, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percentage(tt.current, tt.total))
		})
	}
}

func TestPercentage_AlwaysInRange(t *testing.T) {
	for current := -10; current <= 30; current++ {
		for total := -5; total <= 20; total++ {
			got := Percentage(current, total)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestIsComplete(t *testing.T) {
	assert.True(t, IsComplete(400, 400))
	assert.True(t, IsComplete(500, 400))
	assert.False(t, IsComplete(399, 400))
	assert.False(t, IsComplete(0, 400))
	assert.False(t, IsComplete(5, 0), "zero target is never complete")
	assert.False(t, IsComplete(0, 0))
	assert.False(t, IsComplete(5, -1))
}
