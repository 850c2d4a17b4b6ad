package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrigin(t *testing.T) {
	tests := []struct {
		i, columns int
		x, y       int
	}{
		{0, 2, 5, 50},
		{1, 2, 5, 170},
		{2, 2, 215, 50},
		{7, 2, 635, 170},
		{3, 0, 5, 50},
	}
	for _, tt := range tests {
		x, y := PlaceOrigin(tt.i, tt.columns)
		assert.Equal(t, tt.x, x, "x of %d", tt.i)
		assert.Equal(t, tt.y, y, "y of %d", tt.i)
	}
}

func TestGrid(t *testing.T) {
	view := harbor.PortView{
		Name:     "North",
		Capacity: 8,
		Columns:  2,
		Ships: []domain.Ship{
			domain.DefaultShip{MaxSpeed: 100, Weight: 200, Deck: true},
			domain.MotorShip{},
			domain.DefaultShip{MaxSpeed: 1},
		},
	}

	out := Grid(view)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	assert.Contains(t, out, "3 of 8 places taken")
	assert.Contains(t, out, "| Row | Column 1 | Column 2 | Column 3 | Column 4 |")
	assert.Contains(t, out, "| 1 | #0 DefaultShip 100,200,true | #2 DefaultShip 1,0,false | #4 free | #6 free |")
	assert.Contains(t, out, "| 2 | #1 MotorShip 0,0,false,false,false,false | #3 free | #5 free | #7 free |")
}

func TestGrid_NoPlaces(t *testing.T) {
	out := Grid(harbor.PortView{Name: "Tiny"})
	assert.Contains(t, out, "_no places_")
}

func TestNewRenderer_NonTTY(t *testing.T) {
	render := NewRenderer(nil)
	out, err := render("# title")
	require.NoError(t, err)
	assert.Equal(t, "# title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}
