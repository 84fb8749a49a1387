package core

import (
	"fmt"
	"strconv"
	"strings"
)

// AgentID identifies an agent inside an environment and the engine.
type AgentID int

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns the L1 distance between two positions.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Nearest returns the target closest to from. Ties keep the first target.
func Nearest(from Position, targets []Position) (Position, bool) {
	if len(targets) == 0 {
		return Position{}, false
	}
	best := targets[0]
	bestDist := Manhattan(from, best)
	for _, t := range targets[1:] {
		if d := Manhattan(from, t); d < bestDist {
			best = t
			bestDist = d
		}
	}
	return best, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Action is a token from the closed action vocabulary.
type Action string

const (
	ActionNorth Action = "N"
	ActionSouth Action = "S"
	ActionEast  Action = "E"
	ActionWest  Action = "W"
	ActionStay  Action = "STAY"
	ActionPick  Action = "PICK"
	ActionDrop  Action = "DROP"
)

// CanonicalActions is the fixed priority order used to break ties.
var CanonicalActions = []Action{
	ActionNorth,
	ActionSouth,
	ActionEast,
	ActionWest,
	ActionStay,
	ActionPick,
	ActionDrop,
}

var movements = map[Action]Position{
	ActionNorth: {X: 0, Y: -1},
	ActionSouth: {X: 0, Y: 1},
	ActionEast:  {X: 1, Y: 0},
	ActionWest:  {X: -1, Y: 0},
}

func (a Action) IsMovement() bool {
	_, ok := movements[a]
	return ok
}

// Delta returns the displacement of a movement action.
func (a Action) Delta() (int, int) {
	d := movements[a]
	return d.X, d.Y
}

func (a Action) String() string {
	return string(a)
}

func ParseAction(s string) (Action, error) {
	for _, a := range CanonicalActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// ContainsAction reports whether a is in actions.
func ContainsAction(actions []Action, a Action) bool {
	for _, b := range actions {
		if a == b {
			return true
		}
	}
	return false
}

const maxKeyFields = 8

// StateKey is a discretized observation. It is comparable, so it can key
// maps directly, and totally ordered through Less.
type StateKey struct {
	n      int
	fields [maxKeyFields]int
}

// NewStateKey builds a key from the given fields. It panics when more than
// eight fields are given.
func NewStateKey(fields ...int) StateKey {
	if len(fields) > maxKeyFields {
		panic(fmt.Sprintf("state key supports at most %d fields, got %d", maxKeyFields, len(fields)))
	}
	k := StateKey{n: len(fields)}
	copy(k.fields[:], fields)
	return k
}

func (k StateKey) Len() int {
	return k.n
}

func (k StateKey) Fields() []int {
	out := make([]int, k.n)
	copy(out, k.fields[:k.n])
	return out
}

func (k StateKey) Field(i int) int {
	return k.fields[i]
}

// String is the persisted encoding: fields joined by commas.
func (k StateKey) String() string {
	parts := make([]string, k.n)
	for i := 0; i < k.n; i++ {
		parts[i] = strconv.Itoa(k.fields[i])
	}
	return strings.Join(parts, ",")
}

// Less orders keys lexicographically, shorter keys first on a common prefix.
func (k StateKey) Less(other StateKey) bool {
	for i := 0; i < k.n && i < other.n; i++ {
		if k.fields[i] != other.fields[i] {
			return k.fields[i] < other.fields[i]
		}
	}
	return k.n < other.n
}

// ParseStateKey decodes the comma-joined encoding and checks the field count.
func ParseStateKey(s string, n int) (StateKey, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return StateKey{}, fmt.Errorf("state %q: expected %d fields, got %d", s, n, len(parts))
	}
	if n > maxKeyFields {
		return StateKey{}, fmt.Errorf("state %q: too many fields", s)
	}
	fields := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return StateKey{}, fmt.Errorf("state %q: field %d: %w", s, i, err)
		}
		fields[i] = v
	}
	return NewStateKey(fields...), nil
}

// Bool encodes a flag as a key field.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Observation is what an agent perceives at one step. Treat it as read-only:
// it crosses goroutine boundaries between the engine and the executors.
type Observation struct {
	Agent        AgentID
	Position     Position
	ValidActions []Action
	Fields       map[string]interface{}
}

// NewObservation copies its inputs so the result does not alias environment state.
func NewObservation(agent AgentID, pos Position, valid []Action, fields map[string]interface{}) Observation {
	obs := Observation{
		Agent:        agent,
		Position:     pos,
		ValidActions: append([]Action(nil), valid...),
		Fields:       make(map[string]interface{}, len(fields)),
	}
	for k, v := range fields {
		if ps, ok := v.([]Position); ok {
			v = append([]Position(nil), ps...)
		}
		obs.Fields[k] = v
	}
	return obs
}

func (o Observation) CanMove(a Action) bool {
	return ContainsAction(o.ValidActions, a)
}

func (o Observation) Vector(name string) (Position, bool) {
	v, ok := o.Fields[name].(Position)
	return v, ok
}

func (o Observation) Bool(name string) bool {
	v, _ := o.Fields[name].(bool)
	return v
}

func (o Observation) Float(name string) float64 {
	v, _ := o.Fields[name].(float64)
	return v
}

func (o Observation) Positions(name string) []Position {
	v, _ := o.Fields[name].([]Position)
	return v
}

// Outcome is the environment's response to a single action.
type Outcome struct {
	Reward     float64
	Terminated bool
}

// Feedback is delivered to a policy after its action was applied.
type Feedback struct {
	Reward   float64
	Next     Observation
	Terminal bool
	// Aborted is set when the step could not be completed. Reward and Next
	// carry nothing to learn from.
	Aborted  bool
}

// Mode selects how an agent's policy behaves.
type Mode int

const (
	ModeLearning Mode = iota
	ModeEvaluation
	ModeFixed
)

func (m Mode) String() string {
	switch m {
	case ModeLearning:
		return "learning"
	case ModeEvaluation:
		return "evaluation"
	case ModeFixed:
		return "fixed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "learning":
		return ModeLearning, nil
	case "evaluation":
		return ModeEvaluation, nil
	case "fixed":
		return ModeFixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}
