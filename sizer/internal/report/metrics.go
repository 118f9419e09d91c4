package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/pipesizer/pipesizer/pkg/types"
)

const namespace = "pipesizer"

// Metrics converts res into Prometheus metric families. labels are attached
// to every series, typically the project name.
func Metrics(res *types.CalculationResult, labels map[string]string) ([]*dto.MetricFamily, error) {
	reg := prometheus.NewRegistry()
	r := prometheus.WrapRegistererWith(labels, reg)

	gauge := func(name, help string, v float64) error {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		g.Set(v)
		return r.Register(g)
	}
	for _, m := range []struct {
		name, help string
		v          float64
	}{
		{"pump_head_meters", "Required pump head including the safety factor.", res.PumpHeadM},
		{"raw_pump_head_meters", "Required pump head before the safety factor.", res.RawPumpHeadM},
		{"safety_factor", "Safety factor applied to the raw pump head.", res.SafetyFactor},
		{"pump_flow_lpm", "Flow the pump must deliver in L/min.", res.PumpFlowLPM},
		{"total_flow_lpm", "Total farm flow in L/min.", res.Flow.TotalFlowLPM},
		{"total_head_loss_meters", "Head loss along the primary pipe path.", res.TotalHeadLossM},
		{"required_power_kw", "Estimated pump shaft power in kW.", res.RequiredPowerKW},
	} {
		if err := gauge(m.name, m.help, m.v); err != nil {
			return nil, fmt.Errorf("report: register %s: %w", m.name, err)
		}
	}

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "result_info",
		Help: "Constant 1 labelled with the categorical result fields.",
	}, []string{"complexity", "flow_mode", "pump_tier", "sprinkler_tier"})
	info.WithLabelValues(res.Complexity, res.Flow.Mode, string(res.PumpTier), string(res.SprinklerTier)).Set(1)

	velocity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "segment_velocity_ms", Help: "Flow velocity in the selected pipe per role.",
	}, []string{"role"})
	loss := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "segment_head_loss_meters", Help: "Total head loss in the selected pipe per role.",
	}, []string{"role"})
	for _, s := range res.Segments {
		if s.Degenerate {
			continue
		}
		velocity.WithLabelValues(string(s.Role)).Set(s.HeadLoss.Velocity)
		loss.WithLabelValues(string(s.Role)).Set(s.HeadLoss.Total)
	}

	zoneHead := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "zone_head_meters", Help: "Total head per zone at the pump outlet.",
	}, []string{"zone"})
	for _, z := range res.Zones {
		zoneHead.WithLabelValues(z.ZoneID).Set(z.TotalHeadM)
	}

	score := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "selection_score", Help: "Score of the selected item per equipment class.",
	}, []string{"class", "id", "tier"})
	if s := res.SelectedSprinkler; s != nil {
		score.WithLabelValues("sprinkler", s.Sprinkler.ID, string(res.SprinklerTier)).Set(s.Rating.Score)
	}
	for _, s := range res.Segments {
		if s.Selected != nil {
			score.WithLabelValues(string(s.Role)+"_pipe", s.Selected.Pipe.ID, string(s.Tier)).Set(s.Selected.Rating.Score)
		}
	}
	if s := res.SelectedPump; s != nil {
		score.WithLabelValues("pump", s.Pump.ID, string(res.PumpTier)).Set(s.Rating.Score)
	}

	warnings := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "warnings", Help: "Number of result warnings per level.",
	}, []string{"level"})
	for _, level := range []string{types.LevelInfo, types.LevelWarning, types.LevelCritical} {
		warnings.WithLabelValues(level).Set(0)
	}
	for _, w := range res.Warnings {
		warnings.WithLabelValues(w.Level).Inc()
	}

	for _, c := range []prometheus.Collector{info, velocity, loss, zoneHead, score, warnings} {
		if err := r.Register(c); err != nil {
			return nil, fmt.Errorf("report: register collector: %w", err)
		}
	}

	mfs, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("report: gather: %w", err)
	}
	return mfs, nil
}

// WriteMetrics writes res in the Prometheus text exposition format.
func WriteMetrics(w io.Writer, res *types.CalculationResult, labels map[string]string) error {
	mfs, err := Metrics(res, labels)
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("report: encode metrics: %w", err)
		}
	}
	return nil
}

// WriteTextfile writes the metrics of res to path atomically, so a textfile
// collector never reads a partial file.
func WriteTextfile(path string, res *types.CalculationResult, labels map[string]string) error {
	var buf bytes.Buffer
	if err := WriteMetrics(&buf, res, labels); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("report: create textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("report: write textfile: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("report: write textfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: write textfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: write textfile: %w", err)
	}
	return nil
}
