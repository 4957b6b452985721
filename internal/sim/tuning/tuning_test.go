package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero consumption factor", func(p *Params) { p.ConsumptionFactor = 0 }},
		{"negative consumption factor", func(p *Params) { p.ConsumptionFactor = -1 }},
		{"loaded multiplier below one", func(p *Params) { p.LoadedMultiplier = 0.5 }},
		{"negative transfer cost", func(p *Params) { p.TransferCost = -1 }},
		{"continue fraction at one", func(p *Params) { p.MinContinueFraction = 1 }},
		{"negative retry passes", func(p *Params) { p.MaxRetryPasses = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("Validate should reject")
			}
		})
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := "consumption_factor: 2.0\ntransfer_cost: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.ConsumptionFactor != 2.0 || p.TransferCost != 3 {
		t.Errorf("overrides not applied: %+v", p)
	}
	// Untouched fields keep their defaults.
	if p.LoadedMultiplier != Defaults().LoadedMultiplier {
		t.Errorf("loaded multiplier = %v, want default", p.LoadedMultiplier)
	}
	if p.MaxRetryPasses != Defaults().MaxRetryPasses {
		t.Errorf("max retry passes = %d, want default", p.MaxRetryPasses)
	}
}

func TestLoad_InvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("loaded_multiplier: 0.2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject an invalid override")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail on a missing file")
	}
}
