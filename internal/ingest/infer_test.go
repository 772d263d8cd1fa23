package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dqcli/pkg/contracts/domain"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Value
	}{
		{"empty", "", domain.Missing()},
		{"NA token", "NA", domain.Missing()},
		{"padded token", " None ", domain.Missing()},
		{"NaN token", "NaN", domain.Missing()},
		{"integer", "25", domain.Int(25)},
		{"negative integer", "-5", domain.Int(-5)},
		{"float", "75.5", domain.Float(75.5)},
		{"exponent", "1e3", domain.Float(1000)},
		{"integer overflow becomes float", "99999999999999999999", domain.Float(1e20)},
		{"infinity stays text", "Inf", domain.Text("Inf")},
		{"padded number stays text", " 30", domain.Text(" 30")},
		{"padded text kept verbatim", "  Bob Wilson  ", domain.Text("  Bob Wilson  ")},
		{"text", "jane.email.com", domain.Text("jane.email.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.raw))
		})
	}
}

func TestInferrer_Options(t *testing.T) {
	inf := newInferrer(Options{
		MissingTokens: []string{"-"},
		TextColumns:   []string{"zip"},
	})

	assert.Equal(t, domain.Missing(), inf.value("a", "-"))
	assert.Equal(t, domain.Text("NA"), inf.value("a", "NA"))
	assert.Equal(t, domain.Text("00501"), inf.value("zip", "00501"))
	assert.Equal(t, domain.Missing(), inf.value("zip", "-"))
	assert.Equal(t, domain.Int(501), inf.value("a", "00501"))
}
