// Package types defines the value objects shared by every sizing package:
// the farm input, normalized catalog items, and the derived calculation
// result. These are the canonical in-memory shapes; loaders in
// sizer/internal/catalog and sizer/internal/project produce them, renderers in
// sizer/internal/report consume them.
//
// Nothing in this package holds state between calculations. A
// CalculationResult is built fresh on every engine call.
package types
