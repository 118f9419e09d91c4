// Package scoring rates catalog items against an operating point.
//
// Each equipment class has a 100-point budget split into weighted parts:
//
//	pipe:      velocity 40, size fit 30, cost 20, head loss 10
//	pump:      flow 40, head 35, cost 15, power 10
//	sprinkler: flow fit 50, cost 25, radius 15, pressure 10
//
// A candidate is Usable at 20, GoodChoice at 40 and Recommended at 60, and
// only when it also clears the hard operating limits of its class. The
// levels are nested: Recommended implies GoodChoice implies Usable.
//
// All functions are pure and never fail; inputs that cannot be rated score
// low instead of returning an error.
package scoring
