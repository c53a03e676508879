package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscapeCSVCell(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Safe values - should not be escaped
		{"empty", "", ""},
		{"normal_text", "Goblin Heelcutter", "Goblin Heelcutter"},
		{"number", "386490", "386490"},
		{"mana_cost", "{3}{R}", "{3}{R}"},
		{"internal_equal", "A=B", "A=B"},
		{"type_line", "Creature - Goblin Berserker", "Creature - Goblin Berserker"},

		// Formula injections - must be escaped
		{"formula_equal", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"formula_at", "@SUM(A:A)", "'@SUM(A:A)"},
		{"formula_pipe", "|echo test", "'|echo test"},
		{"formula_percent", "%PATH%", "'%PATH%"},

		// Loyalty abilities trip the same check
		{"loyalty_plus", "+1: Scry 1.", "'+1: Scry 1."},
		{"loyalty_minus", "-3: Destroy target creature.", "'-3: Destroy target creature."},

		// Whitespace injections
		{"tab_start", "\t=EXEC()", "'\t=EXEC()"},
		{"newline_start", "\n=FORMULA()", "'\n=FORMULA()"},
		{"carriage_return", "\r=DATA()", "'\r=DATA()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCSVCell(tt.input); got != tt.expected {
				t.Errorf("EscapeCSVCell(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeCSVRow(t *testing.T) {
	row := []string{"Ugin, the Spirit Dragon", "-X: Exile each permanent", "=1+1", ""}
	want := []string{"Ugin, the Spirit Dragon", "'-X: Exile each permanent", "'=1+1", ""}

	got := EscapeCSVRow(row)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EscapeCSVRow mismatch (-want +got):\n%s", diff)
	}
	if row[1] != "-X: Exile each permanent" {
		t.Error("EscapeCSVRow must not modify its input")
	}
}

func BenchmarkEscapeCSVCell(b *testing.B) {
	inputs := []string{"Normal text", "=FORMULA()", "+1: Draw a card.", "Goblin"}
	for i := 0; i < b.N; i++ {
		for _, input := range inputs {
			_ = EscapeCSVCell(input)
		}
	}
}
