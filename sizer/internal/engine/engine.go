// Package engine orchestrates one sizing calculation: it resolves flows,
// scores and selects equipment from a catalog snapshot, computes head loss
// on the selected pipes, aggregates zone heads into the pump operating
// point and applies the safety factor.
//
// Compute is synchronous and side-effect free apart from logging. It never
// mutates the request or the catalog, and an Engine is safe for concurrent
// use.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pipesizer/pipesizer/pkg/types"
	"github.com/pipesizer/pipesizer/sizer/internal/flow"
	"github.com/pipesizer/pipesizer/sizer/internal/pumphead"
	"github.com/pipesizer/pipesizer/sizer/internal/scoring"
	"github.com/pipesizer/pipesizer/sizer/internal/selection"
	"github.com/pipesizer/pipesizer/sizer/internal/units"
)

// ErrCatalogNotReady is returned while the catalog has no pipes or no pumps.
// It means "not yet computable", not a failed calculation.
var ErrCatalogNotReady = errors.New("engine: catalog not ready")

// PrimaryZoneID names the operating point of the primary input.
const PrimaryZoneID = "primary"

// Request is everything a calculation needs besides the catalog.
type Request struct {
	Input types.IrrigationInput
	// Sprinkler is the user's selected sprinkler. nil selects fallback flow mode.
	Sprinkler *types.Sprinkler
	// Zones lists per-zone inputs of a multi-zone project. With fewer than
	// two zones the primary input alone sets the pump head.
	Zones []types.ZoneData
	// CurrentPipeIDs and CurrentPumpID are kept while still Recommended.
	CurrentPipeIDs map[types.Role]string
	CurrentPumpID  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaterials restricts Recommended pipes per role to the given materials.
func WithMaterials(m map[types.Role][]types.Material) Option {
	return func(e *Engine) {
		e.materials = make(map[types.Role][]types.Material, len(m))
		for role, list := range m {
			e.materials[role] = append([]types.Material(nil), list...)
		}
	}
}

// Engine computes CalculationResults.
type Engine struct {
	logger    *slog.Logger
	materials map[types.Role][]types.Material
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the full calculation for req against cat.
//
// It returns ErrCatalogNotReady when cat has no pipes or no pumps, and an
// error wrapping types.ErrInvalidInput when the input or a zone input fails
// validation. Every other condition yields a result; non-ideal selections
// and degraded data are reported in CalculationResult.Warnings.
func (e *Engine) Compute(cat types.Catalog, req Request) (*types.CalculationResult, error) {
	if len(cat.Pipes) == 0 || len(cat.Pumps) == 0 {
		return nil, ErrCatalogNotReady
	}
	if err := req.Input.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	for _, z := range req.Zones {
		if err := z.Input.Validate(); err != nil {
			return nil, fmt.Errorf("engine: zone %q: %w", z.ZoneID, err)
		}
	}

	in := req.Input
	c := &calc{engine: e, cat: cat, req: req, out: &types.CalculationResult{}}

	// 1. Flow requirement of the primary input.
	flowReq, warnings := flow.Resolve(in, req.Sprinkler)
	c.warnFlow(PrimaryZoneID, warnings)
	c.out.Flow = flowReq.Summary()

	// 2. Sprinkler candidates.
	c.selectSprinkler(flow.TargetPerEmitterLPH(in), flowReq.PerEmitterLPH)

	// 3. Pipe candidates and head loss per installed tier.
	c.out.Segments = c.segments(in, flowReq)
	primary := c.operatingPoint(PrimaryZoneID, in, flowReq.MainFlowLPM, req.Sprinkler, c.out.Segments)
	c.out.TotalHeadLossM = sumLosses(primary.SegmentLossesM)

	// 4. Pump operating point.
	zoneCount := in.NumberOfZones
	if len(req.Zones) > 1 {
		if len(req.Zones) > zoneCount {
			zoneCount = len(req.Zones)
		}
		points := c.zonePoints()
		res := pumphead.Resolve(points, in.SimultaneousZones)
		c.out.Zones = points
		c.out.CriticalZones = res.RunningIDs()
		c.out.RawPumpHeadM = res.HeadM
		c.out.PumpFlowLPM = max(flowReq.MainFlowLPM, res.FlowLPM)
	} else {
		c.out.Zones = []types.ZoneOperatingPoint{primary}
		c.out.CriticalZones = []string{primary.ZoneID}
		c.out.RawPumpHeadM = primary.TotalHeadM
		c.out.PumpFlowLPM = flowReq.MainFlowLPM
	}

	// 5. Safety factor.
	complexity := pumphead.Classify(in, zoneCount)
	c.out.Complexity = string(complexity)
	c.out.SafetyFactor = pumphead.SafetyFactor(complexity)
	c.out.PumpHeadM = c.out.RawPumpHeadM * c.out.SafetyFactor

	// 6. Pump candidates.
	c.selectPump()

	e.logger.Debug("engine: calculation complete",
		"mode", c.out.Flow.Mode,
		"pump_flow_lpm", c.out.PumpFlowLPM,
		"pump_head_m", c.out.PumpHeadM,
		"complexity", c.out.Complexity,
		"warnings", len(c.out.Warnings),
	)
	return c.out, nil
}

// calc carries the state of one Compute call.
type calc struct {
	engine *Engine
	cat    types.Catalog
	req    Request
	out    *types.CalculationResult
}

func (c *calc) warn(ws ...types.Warning) {
	c.out.Warnings = append(c.out.Warnings, ws...)
}

// warnFlow records flow warnings and logs the sprinkler fallback.
func (c *calc) warnFlow(zoneID string, ws []types.Warning) {
	for _, w := range ws {
		if w.Key == flow.KeyFallback {
			c.engine.logger.Warn("engine: sprinkler flow range unusable, using water-need fallback",
				"zone", zoneID, "sprinkler", w.Subject)
		}
	}
	c.warn(ws...)
}

// selectSprinkler scores the catalog against the water-need target, or
// against the resolved per-emitter flow when the water need gives none. With
// no target at all every sprinkler is unusable and the best one is the
// fallback choice.
func (c *calc) selectSprinkler(targetLPH, resolvedLPH float64) {
	c.out.SprinklerTier = types.TierNone
	if len(c.cat.Sprinklers) == 0 {
		return
	}
	if targetLPH <= 0 {
		targetLPH = resolvedLPH
	}
	scored := scoring.ScoreSprinklers(c.cat.Sprinklers, targetLPH)
	c.out.SprinklerCandidates = selection.Rank(scored)

	currentID := ""
	if c.req.Sprinkler != nil {
		currentID = c.req.Sprinkler.ID
	}
	choice, ok := selection.Select(scored, currentID)
	if !ok {
		return
	}
	c.out.SprinklerTier = choice.Tier
	c.out.SelectedSprinkler = &choice.Item
	if w, ok := c.selectionWarning("sprinkler", "sprinkler", choice.Item.Sprinkler.ID, choice.Tier); ok {
		c.warn(w)
	}
}

func (c *calc) selectPump() {
	preq := scoring.PumpRequirement{FlowLPM: c.out.PumpFlowLPM, HeadM: c.out.PumpHeadM}
	c.out.RequiredPowerHP = preq.RequiredHP()
	c.out.RequiredPowerKW = units.HPToKW(c.out.RequiredPowerHP)

	scored := scoring.ScorePumps(c.cat.Pumps, preq)
	c.out.PumpCandidates = selection.Rank(scored)

	choice, ok := selection.Select(scored, c.req.CurrentPumpID)
	c.out.PumpTier = choice.Tier
	if !ok {
		return
	}
	c.out.SelectedPump = &choice.Item
	if w, ok := c.selectionWarning("pump", "pump", choice.Item.Pump.ID, choice.Tier); ok {
		c.warn(w)
	}
}

// selectionWarning reports a choice below Recommended. key prefixes the
// warning key and class names the equipment in the text.
func (c *calc) selectionWarning(key, class, id string, tier types.SelectionTier) (types.Warning, bool) {
	switch tier {
	case types.TierUsable:
		return types.Warning{
			Key:     key + "_not_recommended",
			Level:   types.LevelWarning,
			Title:   "No recommended " + class,
			Detail:  fmt.Sprintf("No catalog %s meets the recommended criteria; %q is usable but not ideal.", class, id),
			Subject: id,
		}, true
	case types.TierFallback:
		c.engine.logger.Warn("engine: no adequate candidate, using best available",
			"class", class, "id", id)
		return types.Warning{
			Key:     key + "_no_adequate",
			Level:   types.LevelCritical,
			Title:   "No adequate " + class,
			Detail:  fmt.Sprintf("No catalog %s meets the operating requirement; %q is the best available and is not usable as is.", class, id),
			Subject: id,
		}, true
	default:
		return types.Warning{}, false
	}
}

// sumLosses adds the losses in role order so the total is bit-for-bit stable.
func sumLosses(m map[types.Role]float64) float64 {
	total := 0.0
	for _, role := range types.Roles {
		total += m[role]
	}
	return total
}
