package common

import (
	"path"
	"time"

	"github.com/zeu5/grid-agents/util"
)

type Flags struct {
	ConfigFile string
	SavePath   string
	RunFlags
	StoreFlags
	Mode        string
	Parallelism int
	Debug       bool
	Render      bool
}

type RunFlags struct {
	NumRuns     int
	Episodes    int
	MaxSteps    int
	Discount    float64
	JoinTimeout time.Duration
}

type StoreFlags struct {
	StoreKind string
	StorePath string
}

func DefaultFlags() *Flags {
	return &Flags{
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:     1,
			Episodes:    100,
			MaxSteps:    200,
			Discount:    0.99,
			JoinTimeout: 2 * time.Second,
		},
		StoreFlags: StoreFlags{
			StoreKind: "memory",
			StorePath: "",
		},
		Mode:        "learning",
		Parallelism: 4,
		Debug:       false,
		Render:      false,
	}
}

func (f *Flags) Record() {
	util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
