package app

import (
	"errors"
	"testing"
)

func TestValidateTicker(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2330", "2330", false},
		{"  2317 ", "2317", false},
		{"00878", "00878", false},
		{"twse:2330", "TWSE:2330", false},
		{"brk.b", "BRK.B", false},
		{"", "", true},
		{"   ", "", true},
		{"12345678901", "", true},
		{"23 30", "", true},
		{"<script>", "", true},
		{"台積電", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateTicker(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !errors.Is(err, ErrInvalidTicker) {
					t.Errorf("expected ErrInvalidTicker, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateTicker(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
