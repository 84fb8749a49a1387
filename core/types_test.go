package core

import (
	"errors"
	"sort"
	"testing"
)

func TestStateKeyEncoding(t *testing.T) {
	k := NewStateKey(0, -1, 1)
	if got := k.String(); got != "0,-1,1" {
		t.Fatalf("expected 0,-1,1 got %s", got)
	}
	parsed, err := ParseStateKey("0,-1,1", 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != k {
		t.Fatalf("expected parsed key to equal original, got %v", parsed.Fields())
	}

	for _, bad := range []string{"0,1", "0,x,1", "", "1,2,3,4"} {
		if _, err := ParseStateKey(bad, 3); err == nil {
			t.Fatalf("expected error parsing %q", bad)
		}
	}
}

func TestStateKeyOrdering(t *testing.T) {
	keys := []StateKey{
		NewStateKey(1, 0),
		NewStateKey(-1, 1),
		NewStateKey(0, 0),
		NewStateKey(-1, -1),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	want := []string{"-1,-1", "-1,1", "0,0", "1,0"}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Fatalf("expected %s at %d got %s", want[i], i, k)
		}
	}
	if NewStateKey(1).Less(NewStateKey(1)) {
		t.Fatalf("expected a key not to be less than itself")
	}
}

func TestStateKeyTooLongPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a nine field key")
		}
	}()
	NewStateKey(1, 2, 3, 4, 5, 6, 7, 8, 9)
}

func TestParseAction(t *testing.T) {
	for _, a := range CanonicalActions {
		got, err := ParseAction(string(a))
		if err != nil || got != a {
			t.Fatalf("expected %s to parse, got %s, %v", a, got, err)
		}
	}
	if _, err := ParseAction("O"); err == nil {
		t.Fatalf("expected unknown token to be rejected")
	}
}

func TestObservationDoesNotAlias(t *testing.T) {
	valid := []Action{ActionNorth, ActionEast}
	targets := []Position{{X: 1, Y: 1}}
	obs := NewObservation(1, Position{}, valid, map[string]interface{}{"targets": targets})

	valid[0] = ActionWest
	targets[0] = Position{X: 9, Y: 9}

	if !obs.CanMove(ActionNorth) || obs.CanMove(ActionWest) {
		t.Fatalf("expected observation to keep its own valid actions, got %v", obs.ValidActions)
	}
	if got := obs.Positions("targets")[0]; got != (Position{X: 1, Y: 1}) {
		t.Fatalf("expected copied targets, got %v", got)
	}
}

func TestNearest(t *testing.T) {
	from := Position{X: 2, Y: 2}
	got, ok := Nearest(from, []Position{{X: 5, Y: 5}, {X: 2, Y: 4}, {X: 4, Y: 2}})
	if !ok || got != (Position{X: 2, Y: 4}) {
		t.Fatalf("expected first closest target (2,4), got %v", got)
	}
	if _, ok := Nearest(from, nil); ok {
		t.Fatalf("expected no target")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"learning": ModeLearning, "evaluation": ModeEvaluation, "fixed": ModeFixed, "": ModeLearning}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("expected %s for %q, got %s, %v", want, in, got, err)
		}
	}
	if _, err := ParseMode("sleepy"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
