package shutdown

import (
	"encoding/json"
	"testing"

	"github.com/smazurov/procctl/internal/process"
)

func TestPolicyJSONKeepsDefaults(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSignal  process.Signal
		wantTimeout process.ShutdownTimeout
	}{
		{"empty object", `{}`, process.SIGTERM, 8},
		{"null timeout", `{"timeout": null}`, process.SIGTERM, 8},
		{"null signal", `{"signal": null, "timeout": 3}`, process.SIGTERM, 3},
		{"explicit zero", `{"signal": "INT", "timeout": 0}`, process.SIGINT, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if p.Signal.Signal() != tt.wantSignal {
				t.Errorf("Signal = %v, want %v", p.Signal, tt.wantSignal)
			}
			if p.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %v, want %v", p.Timeout, tt.wantTimeout)
			}
		})
	}
}
