package types

// Range is a normalized numeric range with Min <= Max.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Midpoint returns the centre of the range.
func (r Range) Midpoint() float64 { return (r.Min + r.Max) / 2 }

// Width returns Max - Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// Contains reports whether v lies inside the closed range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// IsZero reports whether both bounds are zero, i.e. the field was missing.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Material is the pipe material class; it selects the Hazen-Williams base C.
type Material string

const (
	MaterialPVC  Material = "pvc"
	MaterialHDPE Material = "hdpe"
	MaterialLDPE Material = "ldpe"
	MaterialPE   Material = "pe" // flexible polyethylene hose
)

// Pipe is one catalog pipe.
type Pipe struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	SizeMM         float64  `yaml:"size_mm" json:"size_mm"`
	LengthPerUnitM float64  `yaml:"length_per_unit_m" json:"length_per_unit_m"`
	PressureBar    float64  `yaml:"pressure_bar" json:"pressure_bar"`
	Material       Material `yaml:"material" json:"material"`
	Price          float64  `yaml:"price" json:"price"`
}

// Pump is one catalog pump. Flow is in L/min, head in meters.
type Pump struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	FlowLPM Range   `yaml:"flow_lpm" json:"flow_lpm"`
	HeadM   Range   `yaml:"head_m" json:"head_m"`
	PowerHP float64 `yaml:"power_hp" json:"power_hp"`
	Price   float64 `yaml:"price" json:"price"`
}

// Sprinkler is one catalog emitter. Flow is in L/h.
type Sprinkler struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	FlowLPH     Range   `yaml:"flow_lph" json:"flow_lph"`
	RadiusM     Range   `yaml:"radius_m" json:"radius_m"`
	PressureBar Range   `yaml:"pressure_bar" json:"pressure_bar"`
	Price       float64 `yaml:"price" json:"price"`
}

// Catalog is a read-only snapshot of candidate equipment. The engine never
// mutates it; callers must not mutate it while a calculation runs.
type Catalog struct {
	Pipes      []Pipe      `yaml:"pipes" json:"pipes"`
	Pumps      []Pump      `yaml:"pumps" json:"pumps"`
	Sprinklers []Sprinkler `yaml:"sprinklers" json:"sprinklers"`
}

// PipeByID returns the pipe with the given ID.
func (c Catalog) PipeByID(id string) (Pipe, bool) {
	for _, p := range c.Pipes {
		if p.ID == id {
			return p, true
		}
	}
	return Pipe{}, false
}

// PumpByID returns the pump with the given ID.
func (c Catalog) PumpByID(id string) (Pump, bool) {
	for _, p := range c.Pumps {
		if p.ID == id {
			return p, true
		}
	}
	return Pump{}, false
}

// SprinklerByID returns the sprinkler with the given ID.
func (c Catalog) SprinklerByID(id string) (Sprinkler, bool) {
	for _, s := range c.Sprinklers {
		if s.ID == id {
			return s, true
		}
	}
	return Sprinkler{}, false
}
