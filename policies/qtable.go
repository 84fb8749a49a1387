package policies

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/zeu5/grid-agents/core"
	erand "golang.org/x/exp/rand"
)

// QTable stores action-value estimates. Reads never insert entries.
type QTable struct {
	table map[core.StateKey]map[core.Action]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[core.StateKey]map[core.Action]float64),
	}
}

// Get returns the stored estimate or 0.0.
func (q *QTable) Get(state core.StateKey, action core.Action) float64 {
	v, _ := q.Lookup(state, action)
	return v
}

func (q *QTable) Lookup(state core.StateKey, action core.Action) (float64, bool) {
	values, ok := q.table[state]
	if !ok {
		return 0, false
	}
	v, ok := values[action]
	return v, ok
}

func (q *QTable) Set(state core.StateKey, action core.Action, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("non-finite value %v for %s|%s", val, state, action)
	}
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[core.Action]float64)
	}
	q.table[state][action] = val
	return nil
}

func (q *QTable) HasState(state core.StateKey) bool {
	_, ok := q.table[state]
	return ok
}

// Max returns the largest estimate over every action of state, counting
// missing actions as 0.0.
func (q *QTable) Max(state core.StateKey, actions []core.Action) float64 {
	best := math.Inf(-1)
	for _, a := range actions {
		if v := q.Get(state, a); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// MaxAmong picks the action with the highest estimate among actions, scanned
// in the given order with the first maximum winning. Once a state has any
// stored entry its missing actions count as 0.0; ok is false when the state
// has no entries at all.
func (q *QTable) MaxAmong(state core.StateKey, actions []core.Action) (core.Action, float64, bool) {
	values, exists := q.table[state]
	if !exists || len(values) == 0 || len(actions) == 0 {
		return "", 0, false
	}
	maxAction := actions[0]
	maxVal := values[actions[0]]
	for _, a := range actions[1:] {
		if v := values[a]; v > maxVal {
			maxAction = a
			maxVal = v
		}
	}
	return maxAction, maxVal, true
}

// Len is the number of stored (state, action) pairs.
func (q *QTable) Len() int {
	n := 0
	for _, values := range q.table {
		n += len(values)
	}
	return n
}

type QEntry struct {
	State  core.StateKey
	Action core.Action
	Value  float64
}

// Entries lists the table ordered by state, then canonical action order.
func (q *QTable) Entries() []QEntry {
	out := make([]QEntry, 0, q.Len())
	for s, values := range q.table {
		for a, v := range values {
			out = append(out, QEntry{State: s, Action: a, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State.Less(out[j].State)
		}
		return actionRank(out[i].Action) < actionRank(out[j].Action)
	})
	return out
}

func actionRank(a core.Action) int {
	for i, c := range core.CanonicalActions {
		if c == a {
			return i
		}
	}
	return len(core.CanonicalActions)
}

// canonical filters vocabulary down to the movement actions present in valid
// plus every non-movement action, keeping canonical order.
func canonical(vocabulary, valid []core.Action) []core.Action {
	out := make([]core.Action, 0, len(vocabulary))
	for _, a := range core.CanonicalActions {
		if !core.ContainsAction(vocabulary, a) {
			continue
		}
		if a.IsMovement() && !core.ContainsAction(valid, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func newSource(seed uint64) erand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return erand.NewSource(seed)
}
