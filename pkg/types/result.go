package types

// HeadLoss is the hydraulic state of one pipe segment. Major + Minor == Total.
type HeadLoss struct {
	Major    float64 `json:"major_m"`
	Minor    float64 `json:"minor_m"`
	Total    float64 `json:"total_m"`
	Velocity float64 `json:"velocity_ms"`
	C        float64 `json:"roughness_c"`
}

// Rating is the suitability of one catalog item for an operating point.
// Recommended implies GoodChoice, GoodChoice implies Usable.
type Rating struct {
	Score       float64 `json:"score"`
	Recommended bool    `json:"is_recommended"`
	GoodChoice  bool    `json:"is_good_choice"`
	Usable      bool    `json:"is_usable"`
}

// ScoredPipe is a pipe rated for one segment.
type ScoredPipe struct {
	Pipe     Pipe     `json:"pipe"`
	Rating   Rating   `json:"rating"`
	HeadLoss HeadLoss `json:"head_loss"`
}

// CandidateID, CandidatePrice and CandidateRating satisfy selection.Candidate.
func (s ScoredPipe) CandidateID() string     { return s.Pipe.ID }
func (s ScoredPipe) CandidatePrice() float64 { return s.Pipe.Price }
func (s ScoredPipe) CandidateRating() Rating { return s.Rating }

// IdealDistance is how far the segment velocity is from 1.4 m/s.
func (s ScoredPipe) IdealDistance() float64 { return abs(s.HeadLoss.Velocity - IdealPipeVelocity) }

// IdealPipeVelocity is the tie-break target velocity for pipes, in m/s.
const IdealPipeVelocity = 1.4

// ScoredPump is a pump rated for the required operating point.
type ScoredPump struct {
	Pump       Pump    `json:"pump"`
	Rating     Rating  `json:"rating"`
	FlowRatio  float64 `json:"flow_ratio"`
	HeadRatio  float64 `json:"head_ratio"`
	RequiredHP float64 `json:"required_hp"`
}

// CandidateID, CandidatePrice and CandidateRating satisfy selection.Candidate.
func (s ScoredPump) CandidateID() string     { return s.Pump.ID }
func (s ScoredPump) CandidatePrice() float64 { return s.Pump.Price }
func (s ScoredPump) CandidateRating() Rating { return s.Rating }

// IdealDistance is zero: pumps have no tie-break target beyond price.
func (s ScoredPump) IdealDistance() float64 { return 0 }

// ScoredSprinkler is a sprinkler rated for the target per-emitter flow.
type ScoredSprinkler struct {
	Sprinkler Sprinkler `json:"sprinkler"`
	Rating    Rating    `json:"rating"`
	// Deviation is the relative distance of the target flow outside the
	// rated band; zero when the target falls inside it.
	Deviation float64 `json:"deviation"`
	TargetLPH float64 `json:"target_lph"`
}

// CandidateID, CandidatePrice and CandidateRating satisfy selection.Candidate.
func (s ScoredSprinkler) CandidateID() string     { return s.Sprinkler.ID }
func (s ScoredSprinkler) CandidatePrice() float64 { return s.Sprinkler.Price }
func (s ScoredSprinkler) CandidateRating() Rating { return s.Rating }

// IdealDistance is the relative distance of the target from the band centre.
func (s ScoredSprinkler) IdealDistance() float64 {
	mid := s.Sprinkler.FlowLPH.Midpoint()
	if mid <= 0 {
		return 0
	}
	return abs(s.TargetLPH-mid) / mid
}

// SelectionTier records which rule of the auto-selector produced a choice.
type SelectionTier string

const (
	TierCurrent     SelectionTier = "current"
	TierRecommended SelectionTier = "recommended"
	TierUsable      SelectionTier = "usable"
	TierFallback    SelectionTier = "fallback" // best available, not usable
	TierNone        SelectionTier = "none"     // empty candidate list
)

// FlowSummary is the resolved flow requirement of the primary input.
type FlowSummary struct {
	Mode                string  `json:"mode"` // "sprinkler" | "fallback"
	PerEmitterLPH       float64 `json:"per_emitter_lph"`
	PerEmitterLPM       float64 `json:"per_emitter_lpm"`
	TotalEmitters       int     `json:"total_emitters"`
	TotalFlowLPH        float64 `json:"total_flow_lph"`
	TotalFlowLPM        float64 `json:"total_flow_lpm"`
	BranchFlowLPM       float64 `json:"branch_flow_lpm"`
	SecondaryFlowLPM    float64 `json:"secondary_flow_lpm"`
	ProportionalFlowLPM float64 `json:"proportional_flow_lpm"`
	MainFlowLPM         float64 `json:"main_flow_lpm"`
}

// SegmentResult is the selected pipe and hydraulics of one installed tier.
type SegmentResult struct {
	Role       Role          `json:"role"`
	FlowLPM    float64       `json:"flow_lpm"`
	LengthM    float64       `json:"length_m"`
	Degenerate bool          `json:"degenerate"`
	Tier       SelectionTier `json:"tier"`
	Selected   *ScoredPipe   `json:"selected,omitempty"`
	HeadLoss   HeadLoss      `json:"head_loss"`
	Candidates []ScoredPipe  `json:"candidates"`
}

// ZoneOperatingPoint is the head a single zone needs at the pump outlet.
type ZoneOperatingPoint struct {
	ZoneID         string           `json:"zone_id"`
	FlowLPM        float64          `json:"flow_lpm"`
	StaticHeadM    float64          `json:"static_head_m"`
	PressureHeadM  float64          `json:"pressure_head_m"`
	SegmentLossesM map[Role]float64 `json:"segment_losses_m"`
	TotalHeadM     float64          `json:"total_head_m"`
}

// Warning is a structured diagnostic attached to a result.
type Warning struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label.
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Subject names what the warning is about (a role, a zone, a catalog ID).
	Subject string `json:"subject,omitempty"`
}

// Warning levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// CalculationResult is everything derived from one input and catalog snapshot.
type CalculationResult struct {
	Flow     FlowSummary     `json:"flow"`
	Segments []SegmentResult `json:"segments"`

	SprinklerTier       SelectionTier     `json:"sprinkler_tier"`
	SelectedSprinkler   *ScoredSprinkler  `json:"selected_sprinkler,omitempty"`
	SprinklerCandidates []ScoredSprinkler `json:"sprinkler_candidates"`

	Zones         []ZoneOperatingPoint `json:"zones"`
	CriticalZones []string             `json:"critical_zones"`

	TotalHeadLossM float64 `json:"total_head_loss_m"`
	RawPumpHeadM   float64 `json:"raw_pump_head_m"`
	Complexity     string  `json:"complexity"`
	SafetyFactor   float64 `json:"safety_factor"`
	PumpHeadM      float64 `json:"pump_head_m"`
	PumpFlowLPM    float64 `json:"pump_flow_lpm"`

	RequiredPowerHP float64 `json:"required_power_hp"`
	RequiredPowerKW float64 `json:"required_power_kw"`

	PumpTier       SelectionTier `json:"pump_tier"`
	SelectedPump   *ScoredPump   `json:"selected_pump,omitempty"`
	PumpCandidates []ScoredPump  `json:"pump_candidates"`

	Warnings []Warning `json:"warnings"`
}

// Segment returns the result for role, or nil when the tier is not installed.
func (r *CalculationResult) Segment(role Role) *SegmentResult {
	for i := range r.Segments {
		if r.Segments[i].Role == role {
			return &r.Segments[i]
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
