package scoring

import (
	"github.com/pipesizer/pipesizer/pkg/types"
)

// Pump score budget. The four parts sum to 100.
const (
	pumpBudgetFlow  = 40.0
	pumpBudgetHead  = 35.0
	pumpBudgetCost  = 15.0
	pumpBudgetPower = 10.0
)

// RequiredHPFactor converts L/min × m into an estimated shaft horsepower,
// including a typical pump efficiency.
const RequiredHPFactor = 0.00027

// Oversize ceilings: flow and head ratios above these disqualify a pump from
// the corresponding level no matter its score.
const (
	ceilingUsable      = 3.0
	ceilingGoodChoice  = 2.5
	ceilingRecommended = 2.0
)

// ratioBand awards points while a capacity/required ratio stays at or below max.
type ratioBand struct {
	max    float64
	points float64
}

// flowBands and headBands give full credit in the 1.05-1.5 sweet spot and
// decay toward oversized pumps. A ratio below 1.05 is adequate but tight.
var (
	flowBands = []ratioBand{{1.05, 32}, {1.5, pumpBudgetFlow}, {2.0, 30}, {3.0, 18}}
	headBands = []ratioBand{{1.05, 28}, {1.5, pumpBudgetHead}, {2.0, 25}, {2.5, 15}}

	pumpCostBuckets = []bucket{{1, pumpBudgetCost}, {0.5, 11}, {0.2, 7}}
)

// PumpRequirement is the operating point the pump must meet.
type PumpRequirement struct {
	FlowLPM float64
	HeadM   float64
}

// RequiredHP estimates the shaft power needed for req.
func (req PumpRequirement) RequiredHP() float64 {
	if req.FlowLPM <= 0 || req.HeadM <= 0 {
		return 0
	}
	return req.FlowLPM * req.HeadM * RequiredHPFactor
}

// ScorePump rates p against req. A pump whose maximum flow or head is below
// the requirement earns nothing for that part and is never usable.
func ScorePump(p types.Pump, req PumpRequirement) types.ScoredPump {
	maxFlow, maxHead := p.FlowLPM.Max, p.HeadM.Max
	flowRatio := ratio(maxFlow, req.FlowLPM)
	headRatio := ratio(maxHead, req.HeadM)
	requiredHP := req.RequiredHP()

	score := capacityScore(flowRatio, flowBands, 5) +
		capacityScore(headRatio, headBands, 5) +
		pumpCostScore(maxFlow, p.Price) +
		pumpPowerScore(p.PowerHP, requiredHP)

	adequate := flowRatio >= 1 && headRatio >= 1
	within := func(ceiling float64) bool {
		return adequate && flowRatio <= ceiling && headRatio <= ceiling
	}

	return types.ScoredPump{
		Pump:       p,
		FlowRatio:  flowRatio,
		HeadRatio:  headRatio,
		RequiredHP: requiredHP,
		Rating: rate(score, constraints{
			usable:      within(ceilingUsable),
			goodChoice:  within(ceilingGoodChoice),
			recommended: within(ceilingRecommended),
		}),
	}
}

// ScorePumps rates every pump of the catalog for req.
func ScorePumps(pumps []types.Pump, req PumpRequirement) []types.ScoredPump {
	out := make([]types.ScoredPump, 0, len(pumps))
	for _, p := range pumps {
		out = append(out, ScorePump(p, req))
	}
	return out
}

// ratio returns capacity/required, or 0 when the requirement is not positive.
func ratio(capacity, required float64) float64 {
	if required <= 0 || capacity <= 0 {
		return 0
	}
	return capacity / required
}

// capacityScore scores a capacity ratio: zero when inadequate, band points
// otherwise, and oversized credit past the last band.
func capacityScore(r float64, bands []ratioBand, oversized float64) float64 {
	if r < 1 {
		return 0
	}
	for _, b := range bands {
		if r <= b.max {
			return b.points
		}
	}
	return oversized
}

func pumpCostScore(maxFlow, price float64) float64 {
	if price <= 0 || maxFlow <= 0 {
		return 3
	}
	return stepAbove(maxFlow/price, pumpCostBuckets, 3)
}

func pumpPowerScore(ratedHP, requiredHP float64) float64 {
	if ratedHP <= 0 || requiredHP <= 0 {
		return 0
	}
	r := ratedHP / requiredHP
	switch {
	case r >= 1.0 && r <= 2.5:
		return pumpBudgetPower
	case r >= 0.8 && r <= 4.0:
		return 5
	default:
		return 0
	}
}
