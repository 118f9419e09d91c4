package hydraulics

import (
	"fmt"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Severity is the classification of a segment velocity.
type Severity string

const (
	SeverityNominal      Severity = "nominal"
	SeverityWarningLow   Severity = "warning-low"
	SeverityWarningHigh  Severity = "warning-high"
	SeverityCriticalHigh Severity = "critical-high"
)

// Velocity band limits in m/s.
const (
	VelocityCritical = 3.0
	VelocityHigh     = 2.0
	VelocityLow      = 0.3
)

// VelocityCheck is the outcome of ClassifyVelocity.
type VelocityCheck struct {
	Severity Severity
	Velocity float64
	Message  string
}

// ClassifyVelocity places v against the recommended velocity bands for a
// segment of the given role.
func ClassifyVelocity(role types.Role, v float64) VelocityCheck {
	out := VelocityCheck{Severity: SeverityNominal, Velocity: v}
	switch {
	case v > VelocityCritical:
		out.Severity = SeverityCriticalHigh
		out.Message = fmt.Sprintf("%s pipe velocity %.2f m/s is above %.1f m/s: water hammer and excessive friction loss; choose a larger pipe",
			role, v, VelocityCritical)
	case v > VelocityHigh:
		out.Severity = SeverityWarningHigh
		out.Message = fmt.Sprintf("%s pipe velocity %.2f m/s is above the recommended %.1f m/s; consider a larger pipe",
			role, v, VelocityHigh)
	case v < VelocityLow:
		out.Severity = SeverityWarningLow
		out.Message = fmt.Sprintf("%s pipe velocity %.2f m/s is below %.1f m/s: sediment may settle; consider a smaller pipe",
			role, v, VelocityLow)
	default:
		out.Message = fmt.Sprintf("%s pipe velocity %.2f m/s is within the recommended range", role, v)
	}
	return out
}

// Warning converts a non-nominal check into a result warning. ok is false for
// nominal velocities.
func (c VelocityCheck) Warning(role types.Role) (types.Warning, bool) {
	var level, title string
	switch c.Severity {
	case SeverityCriticalHigh:
		level, title = types.LevelCritical, "Velocity too high"
	case SeverityWarningHigh:
		level, title = types.LevelWarning, "Velocity high"
	case SeverityWarningLow:
		level, title = types.LevelWarning, "Velocity low"
	default:
		return types.Warning{}, false
	}
	return types.Warning{
		Key:     "velocity_" + string(c.Severity),
		Level:   level,
		Title:   title,
		Detail:  c.Message,
		Subject: string(role),
	}, true
}
