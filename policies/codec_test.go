package policies

import (
	"math"
	"testing"

	"github.com/zeu5/grid-agents/core"
)

func TestQTableCodec(t *testing.T) {
	q := NewQTable()
	q.Set(core.NewStateKey(1, 0, -1), core.ActionDrop, 0.42)
	q.Set(core.NewStateKey(0, 0, 0), core.ActionNorth, -3)

	encoded := EncodeQTable(q)
	if v, ok := encoded["1,0,-1|DROP"]; !ok || v != 0.42 {
		t.Fatalf("expected key 1,0,-1|DROP with 0.42, got %v", encoded)
	}

	encoded["1,0|N"] = 1
	encoded["0,0,0"] = 1
	encoded["0,0,0|UP"] = 1
	encoded["0,0,1|S"] = math.Inf(1)
	decoded, skipped := DecodeQTable(encoded, 3)
	if skipped != 4 {
		t.Fatalf("expected 4 skipped entries got %d", skipped)
	}
	if decoded.Len() != 2 {
		t.Fatalf("expected 2 entries got %d", decoded.Len())
	}
	if got := decoded.Get(core.NewStateKey(1, 0, -1), core.ActionDrop); got != 0.42 {
		t.Fatalf("expected 0.42 got %f", got)
	}
}

func TestGenomeCodec(t *testing.T) {
	g := Genome{core.NewStateKey(1, -1): core.ActionPick, core.NewStateKey(0, 0): core.ActionStay}
	encoded := EncodeGenome(g)
	encoded["0,1"] = "PICK"

	decoded, skipped := DecodeGenome(encoded, 2, lineActions)
	if skipped != 2 {
		t.Fatalf("expected PICK genes to be dropped for a vocabulary without it, got %d skipped", skipped)
	}
	if decoded[core.NewStateKey(0, 0)] != core.ActionStay {
		t.Fatalf("expected STAY gene to survive got %v", decoded)
	}

	decoded, skipped = DecodeGenome(encoded, 2, core.CanonicalActions)
	if skipped != 0 || len(decoded) != 3 {
		t.Fatalf("expected 3 genes got %d (skipped %d)", len(decoded), skipped)
	}
}

func TestEntriesOrder(t *testing.T) {
	q := NewQTable()
	q.Set(core.NewStateKey(1), core.ActionStay, 1)
	q.Set(core.NewStateKey(1), core.ActionNorth, 1)
	q.Set(core.NewStateKey(-1), core.ActionWest, 1)
	entries := q.Entries()
	want := []string{"-1|W", "1|N", "1|STAY"}
	for i, e := range entries {
		if got := e.State.String() + "|" + string(e.Action); got != want[i] {
			t.Fatalf("expected %s at %d got %s", want[i], i, got)
		}
	}
}
