package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Text writes a human-readable report of res.
func Text(w io.Writer, res *types.CalculationResult, opts Options) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	if opts.Title != "" {
		p.line("%s", opts.Title)
		p.line("%s", strings.Repeat("=", len(opts.Title)))
		p.line("")
	}

	f := res.Flow
	p.line("FLOW\t(%s mode)", f.Mode)
	p.line("  per emitter\t%s L/h\t%s L/min", num(f.PerEmitterLPH, 1), num(f.PerEmitterLPM, 2))
	p.line("  emitters\t%s", humanize.Comma(int64(f.TotalEmitters)))
	p.line("  total\t%s L/h\t%s L/min", num(f.TotalFlowLPH, 0), num(f.TotalFlowLPM, 1))
	p.line("  branch / secondary / main\t%s / %s / %s L/min", num(f.BranchFlowLPM, 1), num(f.SecondaryFlowLPM, 1), num(f.MainFlowLPM, 1))
	p.line("")

	p.line("PIPES")
	p.line("  ROLE\tFLOW L/min\tLENGTH m\tPIPE\tVELOCITY m/s\tLOSS m\tTIER")
	for _, s := range res.Segments {
		if s.Degenerate {
			p.line("  %s\t%s\t%s\t-\t-\t0\tnot used", s.Role, num(s.FlowLPM, 1), num(s.LengthM, 0))
			continue
		}
		id := "-"
		if s.Selected != nil {
			id = s.Selected.Pipe.ID
		}
		p.line("  %s\t%s\t%s\t%s\t%.2f\t%.2f\t%s", s.Role, num(s.FlowLPM, 1), num(s.LengthM, 0), id, s.HeadLoss.Velocity, s.HeadLoss.Total, s.Tier)
	}
	p.line("")

	p.line("HEAD")
	for _, z := range res.Zones {
		p.line("  zone %s\t%.2f m\tstatic %.1f + pressure %.1f + losses %.2f",
			z.ZoneID, z.TotalHeadM, z.StaticHeadM, z.PressureHeadM, z.TotalHeadM-z.StaticHeadM-z.PressureHeadM)
	}
	p.line("  running set\t%s", strings.Join(res.CriticalZones, ", "))
	p.line("  raw pump head\t%.2f m", res.RawPumpHeadM)
	p.line("  complexity\t%s\tx%.2f", res.Complexity, res.SafetyFactor)
	p.line("  pump head\t%.2f m", res.PumpHeadM)
	p.line("  pump flow\t%s L/min", num(res.PumpFlowLPM, 1))
	p.line("  power\t%.2f HP\t%.2f kW", res.RequiredPowerHP, res.RequiredPowerKW)
	p.line("")

	p.line("SELECTION")
	p.line("  CLASS\tID\tSCORE\tTIER\tPRICE")
	if s := res.SelectedSprinkler; s != nil {
		p.line("  sprinkler\t%s\t%.0f\t%s\t%s", s.Sprinkler.ID, s.Rating.Score, res.SprinklerTier, money(s.Sprinkler.Price))
	}
	for _, s := range res.Segments {
		if s.Selected != nil {
			p.line("  %s pipe\t%s\t%.0f\t%s\t%s", s.Role, s.Selected.Pipe.ID, s.Selected.Rating.Score, s.Tier, money(s.Selected.Pipe.Price))
		}
	}
	if s := res.SelectedPump; s != nil {
		p.line("  pump\t%s\t%.0f\t%s\t%s", s.Pump.ID, s.Rating.Score, res.PumpTier, money(s.Pump.Price))
	}

	if n := opts.Candidates; n > 0 {
		p.line("")
		p.line("CANDIDATES")
		for i, c := range firstN(res.PumpCandidates, n) {
			p.line("  pump #%d\t%s\t%.0f\t%s", i+1, c.Pump.ID, c.Rating.Score, flags(c.Rating))
		}
		for _, s := range res.Segments {
			for i, c := range firstN(s.Candidates, n) {
				p.line("  %s pipe #%d\t%s\t%.0f\t%s", s.Role, i+1, c.Pipe.ID, c.Rating.Score, flags(c.Rating))
			}
		}
		for i, c := range firstN(res.SprinklerCandidates, n) {
			p.line("  sprinkler #%d\t%s\t%.0f\t%s", i+1, c.Sprinkler.ID, c.Rating.Score, flags(c.Rating))
		}
	}

	if len(res.Warnings) > 0 {
		p.line("")
		p.line("WARNINGS")
		for _, w := range res.Warnings {
			p.line("  [%s]\t%s\t%s", w.Level, w.Title, w.Detail)
		}
	}

	if p.err != nil {
		return fmt.Errorf("report: write text: %w", p.err)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func num(v float64, digits int) string {
	return humanize.CommafWithDigits(v, digits)
}

func money(v float64) string {
	if v <= 0 {
		return "-"
	}
	return humanize.FormatFloat("#,###.##", v)
}

func flags(r types.Rating) string {
	switch {
	case r.Recommended:
		return "recommended"
	case r.GoodChoice:
		return "good choice"
	case r.Usable:
		return "usable"
	default:
		return "not usable"
	}
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
