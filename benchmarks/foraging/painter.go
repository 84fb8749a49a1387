package foraging

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/grid-agents/core"
)

// Render draws the grid: # obstacle, R resource, N nest, letters for agents
// (bold when carrying) and * for a cell shared by several agents.
func (e *Environment) Render(w io.Writer) {
	occupied := make(map[core.Position][]core.AgentID)
	for _, id := range e.order {
		p := e.positions[id]
		occupied[p] = append(occupied[p], id)
	}

	for y := 0; y < e.config.Height; y++ {
		cells := make([]string, e.config.Width)
		for x := 0; x < e.config.Width; x++ {
			p := core.Position{X: x, Y: y}
			_, resource := e.resources[p]
			switch ids := occupied[p]; {
			case len(ids) > 1:
				cells[x] = aurora.Magenta("*").String()
			case len(ids) == 1:
				glyph := aurora.Green(glyphFor(e.names[ids[0]]))
				if e.carrying[ids[0]] > 0 {
					glyph = glyph.Bold()
				}
				cells[x] = glyph.String()
			case e.obstacles[p]:
				cells[x] = aurora.Gray(12, "#").String()
			case resource:
				cells[x] = aurora.Yellow("R").String()
			case e.nests[p]:
				cells[x] = aurora.Cyan("N").String()
			default:
				cells[x] = "."
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	fmt.Fprintf(w, "delivered: %.1f, remaining: %d\n---\n", e.delivered, len(e.resources))
}

func glyphFor(name string) string {
	if name == "" {
		return "A"
	}
	return strings.ToUpper(name[:1])
}
