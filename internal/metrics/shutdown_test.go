package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	if err := stopDuration.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordSignal(t *testing.T) {
	before := testutil.ToFloat64(signalsSent.WithLabelValues("HUP"))
	RecordSignal("HUP")
	RecordSignal("HUP")

	if got := testutil.ToFloat64(signalsSent.WithLabelValues("HUP")); got != before+2 {
		t.Errorf("signalsSent{HUP} = %v, want %v", got, before+2)
	}
}

func TestRecordSignalErrorDefaultsCode(t *testing.T) {
	before := testutil.ToFloat64(signalErrors.WithLabelValues("OTHER"))
	RecordSignalError("")

	if got := testutil.ToFloat64(signalErrors.WithLabelValues("OTHER")); got != before+1 {
		t.Errorf("signalErrors{OTHER} = %v, want %v", got, before+1)
	}
}

func TestRecordStop(t *testing.T) {
	before := testutil.ToFloat64(stops.WithLabelValues("forced"))
	samples := histogramCount(t)

	RecordStop("forced", 2*time.Second)

	if got := testutil.ToFloat64(stops.WithLabelValues("forced")); got != before+1 {
		t.Errorf("stops{forced} = %v, want %v", got, before+1)
	}
	if got := histogramCount(t); got != samples+1 {
		t.Errorf("stop duration samples = %d, want %d", got, samples+1)
	}
}
