// Package pumphead derives the head the pump must deliver.
//
// Resolve aggregates per-zone operating points: zones are ordered by total
// head, the top simultaneousZones of them form the running set, and the
// pump head is the maximum head in that set. Zones in the set are
// hydraulically parallel, so each must clear its own head at the shared
// pump outlet; their heads are not summed.
//
// Classify scores system complexity with an additive point rule and
// SafetyFactor maps the class to a fixed head multiplier:
//
//	simple  0-1 points  x1.05
//	medium  2-3 points  x1.08
//	complex 4+ points   x1.12
package pumphead
