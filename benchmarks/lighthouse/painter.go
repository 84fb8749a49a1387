package lighthouse

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/grid-agents/core"
)

func agentGlyph(name string) string {
	if name == "" {
		return "A"
	}
	return strings.ToUpper(name[:1])
}

// Render draws the grid: L is the lighthouse, letters are agents and * marks
// a cell shared by several agents.
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
			switch ids := occupied[p]; {
			case len(ids) > 1:
				cells[x] = aurora.Magenta("*").String()
			case len(ids) == 1:
				cells[x] = aurora.Green(agentGlyph(e.names[ids[0]])).String()
			case p == e.config.Lighthouse:
				cells[x] = aurora.Yellow("L").String()
			default:
				cells[x] = "."
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	fmt.Fprintln(w, "---")
}
