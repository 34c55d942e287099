package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "python aws docker",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "python",
			limit:  10,
			expect: "python",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "senior software engineer",
			limit:  6,
			expect: "senior...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  kubernetes  ",
			limit:  4,
			expect: "kube...",
		},
		{
			name:   "counts runes not bytes",
			input:  "résumé",
			limit:  3,
			expect: "rés...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
