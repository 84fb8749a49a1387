package policies

import (
	"math"
	"strings"

	"github.com/zeu5/grid-agents/core"
)

// Persisted encodings:
//
//	Q table: "<f1>,<f2>,...|<action>" -> value
//	genome:  "<f1>,<f2>,..."          -> action
//
// Decoding skips malformed entries one by one and reports how many it dropped.

func qTableKey(state core.StateKey, action core.Action) string {
	return state.String() + "|" + string(action)
}

func EncodeQTable(q *QTable) map[string]float64 {
	out := make(map[string]float64, q.Len())
	for _, e := range q.Entries() {
		out[qTableKey(e.State, e.Action)] = e.Value
	}
	return out
}

func DecodeQTable(entries map[string]float64, keyLen int) (*QTable, int) {
	q := NewQTable()
	skipped := 0
	for k, v := range entries {
		i := strings.LastIndex(k, "|")
		if i < 0 {
			skipped++
			continue
		}
		state, err := core.ParseStateKey(k[:i], keyLen)
		if err != nil {
			skipped++
			continue
		}
		action, err := core.ParseAction(k[i+1:])
		if err != nil {
			skipped++
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		q.Set(state, action, v)
	}
	return q, skipped
}

func EncodeGenome(g Genome) map[string]string {
	out := make(map[string]string, len(g))
	for k, a := range g {
		out[k.String()] = string(a)
	}
	return out
}

// DecodeGenome keeps only genes whose action is in vocabulary.
func DecodeGenome(entries map[string]string, keyLen int, vocabulary []core.Action) (Genome, int) {
	g := make(Genome, len(entries))
	skipped := 0
	for k, v := range entries {
		state, err := core.ParseStateKey(k, keyLen)
		if err != nil {
			skipped++
			continue
		}
		action, err := core.ParseAction(v)
		if err != nil || !core.ContainsAction(vocabulary, action) {
			skipped++
			continue
		}
		g[state] = action
	}
	return g, skipped
}
