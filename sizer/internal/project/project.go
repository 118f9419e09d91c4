// Package project loads a sizing project: the farm input, optional zones
// and the equipment the user has already picked, by catalog ID.
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/engine"
)

// Project is a parsed project file.
type Project struct {
	Name        string
	Input       types.IrrigationInput
	SprinklerID string
	// CurrentPipeIDs and CurrentPumpID are kept by the engine while they stay
	// Recommended.
	CurrentPipeIDs map[types.Role]string
	CurrentPumpID  string
	Zones          []Zone
}

// Zone is one irrigation zone. Its input starts as a copy of the project
// input and overrides only the fields the zone sets.
type Zone struct {
	ID          string
	SprinklerID string
	Input       types.IrrigationInput
}

type rawProject struct {
	Name        string                `yaml:"name"`
	Input       types.IrrigationInput `yaml:"input"`
	SprinklerID string                `yaml:"sprinkler_id"`
	Current     struct {
		Pipes map[types.Role]string `yaml:"pipes"`
		Pump  string                `yaml:"pump"`
	} `yaml:"current"`
	Zones []rawZone `yaml:"zones"`
}

type rawZone struct {
	ID          string    `yaml:"zone_id"`
	SprinklerID string    `yaml:"sprinkler_id"`
	Input       yaml.Node `yaml:"input"`
}

// Load reads and parses the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return p, nil
}

// Parse decodes a project document and applies defaults.
func Parse(data []byte) (*Project, error) {
	var raw rawProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("project: parse yaml: %w", err)
	}

	p := &Project{
		Name:           raw.Name,
		Input:          withDefaults(raw.Input),
		SprinklerID:    raw.SprinklerID,
		CurrentPipeIDs: raw.Current.Pipes,
		CurrentPumpID:  raw.Current.Pump,
	}
	for role := range p.CurrentPipeIDs {
		if !knownRole(role) {
			return nil, fmt.Errorf("project: current.pipes: unknown role %q", role)
		}
	}

	seen := make(map[string]bool, len(raw.Zones))
	for i, rz := range raw.Zones {
		z := Zone{ID: rz.ID, SprinklerID: rz.SprinklerID, Input: clone(p.Input)}
		if z.ID == "" {
			z.ID = fmt.Sprintf("zone-%d", i+1)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("project: zones[%d]: duplicate zone_id %q", i, z.ID)
		}
		seen[z.ID] = true
		if z.SprinklerID == "" {
			z.SprinklerID = p.SprinklerID
		}
		if !rz.Input.IsZero() {
			if err := rz.Input.Decode(&z.Input); err != nil {
				return nil, fmt.Errorf("project: zones[%d] %q: %w", i, z.ID, err)
			}
		}
		p.Zones = append(p.Zones, z)
	}
	return p, nil
}

// Request resolves catalog IDs and builds the engine request. IDs missing
// from the catalog are dropped with a warning rather than failing.
func (p *Project) Request(cat types.Catalog) (engine.Request, []types.Warning) {
	var warnings []types.Warning
	missing := func(kind, id string) {
		warnings = append(warnings, types.Warning{
			Key:     "project_unknown_id",
			Level:   types.LevelWarning,
			Title:   "Unknown catalog ID",
			Detail:  fmt.Sprintf("The project refers to %s %q, which is not in the catalog; it was ignored.", kind, id),
			Subject: id,
		})
	}
	sprinkler := func(id string) *types.Sprinkler {
		if id == "" {
			return nil
		}
		s, ok := cat.SprinklerByID(id)
		if !ok {
			missing("sprinkler", id)
			return nil
		}
		return &s
	}

	req := engine.Request{
		Input:     p.Input,
		Sprinkler: sprinkler(p.SprinklerID),
	}

	if len(p.CurrentPipeIDs) > 0 {
		req.CurrentPipeIDs = make(map[types.Role]string, len(p.CurrentPipeIDs))
		for _, role := range types.Roles {
			id, ok := p.CurrentPipeIDs[role]
			if !ok || id == "" {
				continue
			}
			if _, found := cat.PipeByID(id); !found {
				missing(string(role)+" pipe", id)
				continue
			}
			req.CurrentPipeIDs[role] = id
		}
	}
	if p.CurrentPumpID != "" {
		if _, ok := cat.PumpByID(p.CurrentPumpID); ok {
			req.CurrentPumpID = p.CurrentPumpID
		} else {
			missing("pump", p.CurrentPumpID)
		}
	}

	for _, z := range p.Zones {
		zs := req.Sprinkler
		if z.SprinklerID != p.SprinklerID {
			zs = sprinkler(z.SprinklerID)
		}
		req.Zones = append(req.Zones, types.ZoneData{ZoneID: z.ID, Input: z.Input, Sprinkler: zs})
	}
	return req, warnings
}

// withDefaults fills the fields a project may leave out.
func withDefaults(in types.IrrigationInput) types.IrrigationInput {
	if in.NumberOfZones == 0 {
		in.NumberOfZones = 1
	}
	if in.SimultaneousZones == 0 {
		in.SimultaneousZones = 1
	}
	if in.EmittersPerTree == 0 {
		in.EmittersPerTree = 1
	}
	return in
}

// clone copies in, including the optional pipe runs.
func clone(in types.IrrigationInput) types.IrrigationInput {
	out := in
	if in.Secondary != nil {
		s := *in.Secondary
		out.Secondary = &s
	}
	if in.Main != nil {
		m := *in.Main
		out.Main = &m
	}
	return out
}

func knownRole(r types.Role) bool {
	for _, known := range types.Roles {
		if r == known {
			return true
		}
	}
	return false
}
