package types

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every IrrigationInput validation failure.
var ErrInvalidInput = errors.New("invalid irrigation input")

// Role identifies a pipeline tier between the emitters and the pump.
type Role string

const (
	RoleBranch    Role = "branch"
	RoleSecondary Role = "secondary"
	RoleMain      Role = "main"
)

// Roles is the ordered set of pipe roles, emitters first.
var Roles = []Role{RoleBranch, RoleSecondary, RoleMain}

// PipeRun describes the installed pipe of one tier.
type PipeRun struct {
	// LongestM is the length of the longest single run, used for head loss.
	LongestM float64 `yaml:"longest_m" json:"longest_m"`
	// TotalM is the total installed length of this tier.
	TotalM float64 `yaml:"total_m" json:"total_m"`
}

// IrrigationInput is the farm description a calculation starts from.
//
// Secondary and Main are optional: nil means the tier is not installed. A
// non-nil run with zero length is a degenerate segment and contributes no
// head loss.
type IrrigationInput struct {
	FarmSizeHa         float64 `yaml:"farm_size_ha" json:"farm_size_ha"`
	TotalTrees         int     `yaml:"total_trees" json:"total_trees"`
	EmittersPerTree    float64 `yaml:"emitters_per_tree" json:"emitters_per_tree"`
	WaterPerTreeLiters float64 `yaml:"water_per_tree_liters" json:"water_per_tree_liters"`
	NumberOfZones      int     `yaml:"number_of_zones" json:"number_of_zones"`
	SimultaneousZones  int     `yaml:"simultaneous_zones" json:"simultaneous_zones"`

	Branch    PipeRun  `yaml:"branch" json:"branch"`
	Secondary *PipeRun `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Main      *PipeRun `yaml:"main,omitempty" json:"main,omitempty"`

	IrrigationMinutes float64 `yaml:"irrigation_minutes" json:"irrigation_minutes"`
	StaticHeadM       float64 `yaml:"static_head_m" json:"static_head_m"`
	PressureHeadM     float64 `yaml:"pressure_head_m" json:"pressure_head_m"`
	PipeAgeYears      float64 `yaml:"pipe_age_years" json:"pipe_age_years"`

	// Topology of the longest path from pump to emitter.
	EmittersPerBranch    int `yaml:"emitters_per_branch" json:"emitters_per_branch"`
	BranchesPerSecondary int `yaml:"branches_per_secondary" json:"branches_per_secondary"`
	SecondariesPerMain   int `yaml:"secondaries_per_main" json:"secondaries_per_main"`
}

// Run returns the pipe run configured for role, or nil when the tier is absent.
func (in IrrigationInput) Run(role Role) *PipeRun {
	switch role {
	case RoleBranch:
		b := in.Branch
		return &b
	case RoleSecondary:
		return in.Secondary
	case RoleMain:
		return in.Main
	default:
		return nil
	}
}

// TotalPipeLengthM sums the installed length of every present tier.
func (in IrrigationInput) TotalPipeLengthM() float64 {
	total := in.Branch.TotalM
	if in.Secondary != nil {
		total += in.Secondary.TotalM
	}
	if in.Main != nil {
		total += in.Main.TotalM
	}
	return total
}

// Validate checks the structural invariants of the input.
func (in IrrigationInput) Validate() error {
	if in.NumberOfZones < 1 {
		return fmt.Errorf("%w: number_of_zones must be at least 1, got %d", ErrInvalidInput, in.NumberOfZones)
	}
	if in.SimultaneousZones < 1 {
		return fmt.Errorf("%w: simultaneous_zones must be at least 1, got %d", ErrInvalidInput, in.SimultaneousZones)
	}
	if in.SimultaneousZones > in.NumberOfZones {
		return fmt.Errorf("%w: simultaneous_zones (%d) exceeds number_of_zones (%d)",
			ErrInvalidInput, in.SimultaneousZones, in.NumberOfZones)
	}
	if in.TotalTrees < 0 || in.EmittersPerTree < 0 || in.WaterPerTreeLiters < 0 {
		return fmt.Errorf("%w: tree count, emitters per tree and water per tree must not be negative", ErrInvalidInput)
	}
	if in.IrrigationMinutes < 0 || in.FarmSizeHa < 0 || in.PipeAgeYears < 0 {
		return fmt.Errorf("%w: farm size, irrigation minutes and pipe age must not be negative", ErrInvalidInput)
	}
	if in.EmittersPerBranch < 0 || in.BranchesPerSecondary < 0 || in.SecondariesPerMain < 0 {
		return fmt.Errorf("%w: topology multipliers must not be negative", ErrInvalidInput)
	}
	for _, role := range Roles {
		run := in.Run(role)
		if run == nil {
			continue
		}
		if run.LongestM < 0 || run.TotalM < 0 {
			return fmt.Errorf("%w: %s pipe lengths must not be negative", ErrInvalidInput, role)
		}
		if run.LongestM > 0 && run.TotalM > 0 && run.LongestM > run.TotalM {
			return fmt.Errorf("%w: %s longest run (%.1f m) exceeds total length (%.1f m)",
				ErrInvalidInput, role, run.LongestM, run.TotalM)
		}
	}
	return nil
}

// ZoneData is one irrigation zone of a multi-zone project.
type ZoneData struct {
	ZoneID    string          `yaml:"zone_id" json:"zone_id"`
	Input     IrrigationInput `yaml:"input" json:"input"`
	Sprinkler *Sprinkler      `yaml:"-" json:"sprinkler,omitempty"`
}
