package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "GRID_AGENTS_"

// LoadDotEnv loads the first of files that exists. Variables already set in
// the process environment win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", "../.env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			return
		}
	}
}

// ApplyEnv overrides experiment fields from GRID_AGENTS_* variables.
func (e *Experiment) ApplyEnv() error {
	if err := envInt("EPISODES", &e.Run.Episodes); err != nil {
		return err
	}
	if err := envInt("MAX_STEPS", &e.Run.MaxSteps); err != nil {
		return err
	}
	if err := envFloat("DISCOUNT", &e.Run.DiscountFactor); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "STORE"); ok {
		e.Storage.Kind = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STORE_PATH"); ok {
		e.Storage.Path = v
	}
	if v, ok := os.LookupEnv(envPrefix + "OUTPUT"); ok {
		e.Output = v
	}
	if v, ok := os.LookupEnv(envPrefix + "MODE"); ok {
		for i := range e.Agents {
			e.Agents[i].Mode = v
		}
	}
	return nil
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = n
	return nil
}

func envFloat(name string, dst *float64) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = f
	return nil
}
