package stats

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 20, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotSeriesBasic(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "Score", Values: []float64{60, 70, 80, 90, 95}},
	}
	if err := PlotSeries(&buf, "Score Timeline", series, 20, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Score Timeline\n") {
		t.Fatalf("expected title line, got %q", out)
	}
	// title + scale note + 1 min/max line + 4 plot rows + legend + trailing blank.
	if got := strings.Count(out, "\n"); got != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "Score: min=60.00 max=95.00") {
		t.Fatalf("expected min/max line, got %q", out)
	}
	if !strings.Contains(out, axisSeparator) {
		t.Fatalf("expected axis separator in plot rows")
	}
	if !strings.Contains(out, "Legend: ") {
		t.Fatalf("expected legend line")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes when writing to a buffer")
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 2, 3, 4}, 2)
	if !reflect.DeepEqual(down, []float64{1.5, 3.5}) {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if !reflect.DeepEqual(up, []float64{0, 5, 10}) {
		t.Fatalf("unexpected upsample: %v", up)
	}
	values := []float64{1, 2, 3}
	same := resampleSeries(values, 3)
	same[0] = 99
	if values[0] != 1 {
		t.Fatalf("resample must not alias its input")
	}
}

func TestPlotWidthFor(t *testing.T) {
	if w := PlotWidthFor(0); w != minPlotWidth {
		t.Fatalf("expected min width for zero, got %d", w)
	}
	if w := PlotWidthFor(80); w != 73 {
		t.Fatalf("expected 73 for an 80-column terminal, got %d", w)
	}
}

func TestValueToRow(t *testing.T) {
	if row := valueToRow(100, 0, 100, 40); row != 0 {
		t.Fatalf("expected max value at the top row, got %d", row)
	}
	if row := valueToRow(0, 0, 100, 40); row != 39 {
		t.Fatalf("expected min value at the bottom row, got %d", row)
	}
}

func TestMakeAxisLabels(t *testing.T) {
	labels := makeAxisLabels(4)
	if labels[0] != axisLabelTop || labels[2] != axisLabelMid || labels[3] != axisLabelBottom {
		t.Fatalf("unexpected axis labels: %v", labels)
	}
}
