package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// WriteText gathers every metric family from g and writes one line per
// sample: counters and gauges as their value, histograms as count and sum.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	if g == nil {
		return fmt.Errorf("no gatherer")
	}
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", name, m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s_count%s %d\n", mf.GetName(), formatLabels(m.GetLabel()), h.GetSampleCount())
				fmt.Fprintf(w, "%s_sum%s %g\n", mf.GetName(), formatLabels(m.GetLabel()), h.GetSampleSum())
			}
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
