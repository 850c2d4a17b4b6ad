package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/aretw0/harbor/pkg/port"
)

// Drawing offsets of the first place.
const (
	originX = 5
	originY = 50
)

// PlaceOrigin returns the top-left pixel of place i when columns places are stacked per column.
func PlaceOrigin(i, columns int) (x, y int) {
	if columns <= 0 {
		return originX, originY
	}
	return i/columns*port.PlaceWidth + originX, originY + i%columns*port.PlaceHeight
}

// Grid renders a port as a markdown table laid out like the drawn port:
// place i sits in column i/Columns and row i%Columns.
func Grid(view harbor.PortView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", view.Name)
	fmt.Fprintf(&b, "%d of %d places taken\n\n", len(view.Ships), view.Capacity)

	if view.Columns == 0 || view.Capacity == 0 {
		b.WriteString("_no places_\n")
		return b.String()
	}

	cols := view.Capacity / view.Columns
	b.WriteString("| Row |")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(&b, " Column %d |", c+1)
	}
	b.WriteString("\n|---|")
	for c := 0; c < cols; c++ {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for r := 0; r < view.Columns; r++ {
		fmt.Fprintf(&b, "| %d |", r+1)
		for c := 0; c < cols; c++ {
			i := c*view.Columns + r
			if i < len(view.Ships) {
				s := view.Ships[i]
				fmt.Fprintf(&b, " #%d %s %s |", i, s.Kind(), s.Describe())
			} else {
				fmt.Fprintf(&b, " #%d free |", i)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
