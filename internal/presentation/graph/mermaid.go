// Package graph renders a port collection as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
)

// GenerateMermaid produces a Mermaid flowchart of the collection: one subgraph per
// port and one node per ship, linked in place order.
// It applies semantic styling:
// - Port: [(Cylinder)] labelled with occupancy
// - DefaultShip: [Rectangle]
// - MotorShip: [[Subroutine]]
// Full ports get the "full" class.
func GenerateMermaid(views []harbor.PortView) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var full []string
	for pi, view := range views {
		portID := fmt.Sprintf("p%d", pi)
		label := escapeLabel(view.Name)

		sb.WriteString(fmt.Sprintf("    subgraph %s_box[\"%s\"]\n", portID, label))
		sb.WriteString(fmt.Sprintf("        %s[(\"%s <br/> %d/%d\")]\n", portID, label, len(view.Ships), view.Capacity))

		prev := portID
		for si, ship := range view.Ships {
			shipID := fmt.Sprintf("%s_s%d", portID, si)

			opener, closer := "[", "]"
			if ship.Kind() == domain.KindMotor {
				opener, closer = "[[", "]]" // Subroutine
			}
			sb.WriteString(fmt.Sprintf("        %s%s\"#%d %s <br/> %s\"%s\n",
				shipID, opener, si, ship.Kind(), ship.Describe(), closer))
			sb.WriteString(fmt.Sprintf("        %s --> %s\n", prev, shipID))
			prev = shipID
		}
		sb.WriteString("    end\n")

		if view.Capacity > 0 && len(view.Ships) >= view.Capacity {
			full = append(full, portID)
		}
	}

	if len(full) > 0 {
		sb.WriteString("\n    %% Full ports\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef full fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		for _, id := range full {
			sb.WriteString(fmt.Sprintf("    class %s full;\n", id))
		}
	}

	return sb.String()
}

// escapeLabel keeps user text from closing a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
