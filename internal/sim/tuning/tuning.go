// Package tuning holds the numeric simulation parameters. Defaults are
// compiled in; deployments may override a subset from a YAML file.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params are the knobs of the movement and battery model.
type Params struct {
	// ConsumptionFactor scales battery drain per unit distance.
	ConsumptionFactor float64 `yaml:"consumption_factor"`
	// LoadedMultiplier scales drain while cargo is aboard.
	LoadedMultiplier float64 `yaml:"loaded_multiplier"`
	// TransferCost is the flat battery cost of one load or unload.
	TransferCost int `yaml:"transfer_cost"`
	// MinContinueFraction is the battery fraction below which a robot
	// aborts its mission and returns to a port.
	MinContinueFraction float64 `yaml:"min_continue_fraction"`
	// MaxRetryPasses bounds the dispatcher's retry loop per cycle.
	MaxRetryPasses int `yaml:"max_retry_passes"`
}

// Defaults returns the compiled-in parameter set.
func Defaults() Params {
	return Params{
		ConsumptionFactor:   1.0,
		LoadedMultiplier:    1.5,
		TransferCost:        1,
		MinContinueFraction: 0.1,
		MaxRetryPasses:      3,
	}
}

// Load reads a YAML override file on top of the defaults. Fields absent
// from the file keep their default values.
func Load(path string) (Params, error) {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects parameter sets the engine cannot run with.
func (p Params) Validate() error {
	if p.ConsumptionFactor <= 0 {
		return fmt.Errorf("consumption_factor must be positive, got %v", p.ConsumptionFactor)
	}
	if p.LoadedMultiplier < 1 {
		return fmt.Errorf("loaded_multiplier must be >= 1, got %v", p.LoadedMultiplier)
	}
	if p.TransferCost < 0 {
		return fmt.Errorf("transfer_cost must be non-negative, got %d", p.TransferCost)
	}
	if p.MinContinueFraction < 0 || p.MinContinueFraction >= 1 {
		return fmt.Errorf("min_continue_fraction must be in [0,1), got %v", p.MinContinueFraction)
	}
	if p.MaxRetryPasses < 0 {
		return fmt.Errorf("max_retry_passes must be non-negative, got %d", p.MaxRetryPasses)
	}
	return nil
}
