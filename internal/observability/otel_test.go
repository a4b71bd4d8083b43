package observability

import (
	"context"
	"reflect"
	"testing"
)

func TestEnabled(t *testing.T) {
	for v, want := range map[string]bool{"": false, "0": false, "false": false, "1": true, "TRUE": true, " on ": true, "yes": true} {
		t.Setenv("OTEL_ENABLED", v)
		if got := Enabled(); got != want {
			t.Errorf("OTEL_ENABLED=%q: Enabled() = %v, want %v", v, got, want)
		}
	}
}

func TestSampleRatio(t *testing.T) {
	tests := map[string]float64{"": 1, "0.25": 0.25, "-1": 0, "7": 1, "half": 1}
	for v, want := range tests {
		t.Setenv("OTEL_SAMPLER_RATIO", v)
		if got := sampleRatio(); got != want {
			t.Errorf("OTEL_SAMPLER_RATIO=%q: got %v, want %v", v, got, want)
		}
	}
}

func TestHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc, x-team = tutor ,broken,=nokey")
	want := map[string]string{"api-key": "abc", "x-team": "tutor"}
	if got := headers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("headers() = %v, want %v", got, want)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if headers() != nil {
		t.Fatal("expected nil headers when unset")
	}
}

func TestInitDisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	stop := Init(context.Background(), nil, Config{ServiceName: "test"})
	if stop == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := stop(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
