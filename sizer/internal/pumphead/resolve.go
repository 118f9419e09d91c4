package pumphead

import (
	"sort"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Resolution is the aggregated pump operating point of a zone set.
type Resolution struct {
	// HeadM is the largest total head among the running zones.
	HeadM float64
	// FlowLPM is the largest zone flow among the running zones.
	FlowLPM float64
	// Running are the zones assumed to run together, highest head first.
	Running []types.ZoneOperatingPoint
	// CriticalZoneID is the zone that sets HeadM.
	CriticalZoneID string
}

// RunningIDs returns the IDs of the running zones in head order.
func (r Resolution) RunningIDs() []string {
	ids := make([]string, 0, len(r.Running))
	for _, z := range r.Running {
		ids = append(ids, z.ZoneID)
	}
	return ids
}

// Resolve picks the simultaneous running set from zones and returns its
// operating point. simultaneous is clamped to [1, len(zones)]. zones is not
// modified. An empty zone list yields the zero Resolution.
func Resolve(zones []types.ZoneOperatingPoint, simultaneous int) Resolution {
	if len(zones) == 0 {
		return Resolution{}
	}

	sorted := make([]types.ZoneOperatingPoint, len(zones))
	copy(sorted, zones)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalHeadM != sorted[j].TotalHeadM {
			return sorted[i].TotalHeadM > sorted[j].TotalHeadM
		}
		return sorted[i].ZoneID < sorted[j].ZoneID
	})

	k := simultaneous
	if k < 1 {
		k = 1
	}
	if k > len(sorted) {
		k = len(sorted)
	}

	res := Resolution{Running: sorted[:k]}
	for _, z := range res.Running {
		if z.FlowLPM > res.FlowLPM {
			res.FlowLPM = z.FlowLPM
		}
	}
	// Sorted by head, so the first running zone is the critical one.
	res.HeadM = res.Running[0].TotalHeadM
	res.CriticalZoneID = res.Running[0].ZoneID
	return res
}
