package policies

import (
	"context"
	"math"

	"github.com/zeu5/grid-agents/core"
)

// lineSpace is a one dimensional world with its target at x=0. The key is
// the direction towards the target.
type lineSpace struct{}

var lineActions = []core.Action{core.ActionNorth, core.ActionSouth, core.ActionEast, core.ActionWest, core.ActionStay}

func (lineSpace) Key(obs core.Observation) core.StateKey {
	return core.NewStateKey(core.Sign(-obs.Position.X))
}

func (lineSpace) Keys() []core.StateKey {
	return []core.StateKey{core.NewStateKey(-1), core.NewStateKey(0), core.NewStateKey(1)}
}

func (lineSpace) KeyLen() int { return 1 }

func (lineSpace) Actions() []core.Action { return lineActions }

func (lineSpace) Distance(obs core.Observation) float64 {
	return math.Abs(float64(obs.Position.X))
}

func (lineSpace) Heuristic(key core.StateKey, valid []core.Action) core.Action {
	return Toward(key.Field(0), 0, valid)
}

func (lineSpace) HeuristicUnconstrained(key core.StateKey) core.Action {
	return Toward(key.Field(0), 0, AllMoves())
}

func at(x int, valid ...core.Action) core.Observation {
	return core.NewObservation(1, core.Position{X: x}, valid, nil)
}

type mapStore struct {
	tables  map[string]map[string]float64
	genomes map[string]map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{
		tables:  make(map[string]map[string]float64),
		genomes: make(map[string]map[string]string),
	}
}

func (m *mapStore) LoadQTable(_ context.Context, name string) (map[string]float64, error) {
	return m.tables[name], nil
}

func (m *mapStore) SaveQTable(_ context.Context, name string, table map[string]float64) error {
	m.tables[name] = table
	return nil
}

func (m *mapStore) LoadGenome(_ context.Context, name string) (map[string]string, error) {
	return m.genomes[name], nil
}

func (m *mapStore) SaveGenome(_ context.Context, name string, genome map[string]string) error {
	m.genomes[name] = genome
	return nil
}
