package foraging

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/zeu5/grid-agents/benchmarks/common"
	"github.com/zeu5/grid-agents/config"
	"github.com/zeu5/grid-agents/core"
	"github.com/zeu5/grid-agents/storage"
)

func newEnv(t *testing.T) *Environment {
	t.Helper()
	cfg := DefaultEnvConfig()
	cfg.Width, cfg.Height = 5, 5
	cfg.Resources = []Resource{{Position: core.Position{X: 2, Y: 0}, Value: 2}}
	cfg.Nests = []core.Position{{X: 0, Y: 0}}
	cfg.Obstacles = []core.Position{{X: 1, Y: 1}}
	env, err := NewEnvironment(cfg)
	if err != nil {
		t.Fatalf("new environment: %v", err)
	}
	if err := env.AddAgent(1, "A1", core.Position{}); err != nil {
		t.Fatalf("add agent: %v", err)
	}
	return env
}

func act(t *testing.T, env *Environment, a core.Action) core.Outcome {
	t.Helper()
	out, err := env.Act(1, a)
	if err != nil {
		t.Fatalf("act %s: %v", a, err)
	}
	return out
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestForagingRewards(t *testing.T) {
	env := newEnv(t)

	if out := act(t, env, core.ActionPick); !near(out.Reward, -0.3) {
		t.Fatalf("expected a pick on an empty cell to cost -0.3 got %f", out.Reward)
	}
	if out := act(t, env, core.ActionDrop); !near(out.Reward, -0.3) {
		t.Fatalf("expected an empty handed drop to cost -0.3 got %f", out.Reward)
	}
	act(t, env, core.ActionSouth)
	if out := act(t, env, core.ActionEast); !near(out.Reward, -0.3) {
		t.Fatalf("expected bumping the obstacle to cost -0.3 got %f", out.Reward)
	}
	if p, _ := env.Position(1); p != (core.Position{X: 0, Y: 1}) {
		t.Fatalf("expected to stay at (0,1) got %v", p)
	}
	act(t, env, core.ActionNorth)

	act(t, env, core.ActionEast)
	act(t, env, core.ActionEast)
	if out := act(t, env, core.ActionPick); !near(out.Reward, 0.4) {
		t.Fatalf("expected pickup reward 0.4 got %f", out.Reward)
	}
	if env.Carrying(1) != 2 || env.Remaining() != 0 {
		t.Fatalf("expected to carry the resource of value 2")
	}
	if out := act(t, env, core.ActionStay); out.Terminated {
		t.Fatalf("expected the episode to go on while a resource is carried")
	}
	act(t, env, core.ActionWest)
	act(t, env, core.ActionWest)
	out := act(t, env, core.ActionDrop)
	if !near(out.Reward, 1.9) || !out.Terminated || env.Delivered() != 2 {
		t.Fatalf("expected delivery reward 1.9 and termination got %+v", out)
	}

	env.Reset()
	if env.Remaining() != 1 || env.Carrying(1) != 0 || env.Terminated() {
		t.Fatalf("expected reset to restore resources")
	}
}

func TestForagingConfig(t *testing.T) {
	cfg := DefaultEnvConfig()
	cfg.Resources = []Resource{{Position: core.Position{X: 1, Y: 1}}}
	if _, err := NewEnvironment(cfg); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected resources without nests to be rejected, got %v", err)
	}
	env := newEnv(t)
	if err := env.AddAgent(2, "A2", core.Position{X: 1, Y: 1}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected a start on an obstacle to be rejected, got %v", err)
	}
}

func TestForagingSpace(t *testing.T) {
	env := newEnv(t)
	space := NewSpace()
	key := func() string {
		obs, err := env.Observe(1)
		if err != nil {
			t.Fatalf("observe: %v", err)
		}
		return space.Key(obs).String()
	}

	act(t, env, core.ActionEast)
	if got := key(); got != "0,0,0,1,0" {
		t.Fatalf("expected to head east for the resource got %s", got)
	}
	act(t, env, core.ActionEast)
	if got := key(); got != "0,1,0,0,0" {
		t.Fatalf("expected the resource underfoot got %s", got)
	}
	act(t, env, core.ActionPick)
	if got := key(); got != "1,0,0,-1,0" {
		t.Fatalf("expected to head west for the nest got %s", got)
	}
	act(t, env, core.ActionWest)
	act(t, env, core.ActionWest)
	if got := key(); got != "1,0,1,0,0" {
		t.Fatalf("expected to stand on the nest got %s", got)
	}

	if got := space.Heuristic(core.NewStateKey(1, 0, 1, 0, 0), nil); got != core.ActionDrop {
		t.Fatalf("expected DROP got %s", got)
	}
	if got := space.Heuristic(core.NewStateKey(0, 1, 0, 0, 0), nil); got != core.ActionPick {
		t.Fatalf("expected PICK got %s", got)
	}
	if got := space.Heuristic(core.NewStateKey(0, 0, 0, 1, -1), []core.Action{core.ActionNorth}); got != core.ActionNorth {
		t.Fatalf("expected N when E is blocked got %s", got)
	}
	if len(space.Keys()) != 72 {
		t.Fatalf("expected 72 keys got %d", len(space.Keys()))
	}
}

func TestFixedAgentCollectsEverything(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewStore(ctx, storage.KindMemory, "")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	exp := config.Default(config.EnvForaging)
	exp.Run.Episodes = 1
	exp.Agents[0].Mode = core.ModeFixed.String()

	result, err := common.Run(ctx, exp, NewSetup, store, common.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	ep := result.Episodes[0]
	if !ep.Success || ep.Steps != 22 {
		t.Fatalf("expected both resources delivered in 22 steps got %+v", ep)
	}
	if !near(ep.TotalReward, 1.8) {
		t.Fatalf("expected total reward 1.8 got %f", ep.TotalReward)
	}
}
