package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"12h", 12 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{"0s", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTTL(tt.input))
		})
	}
}

func TestParseTTL_FallsBackOnGarbage(t *testing.T) {
	for _, input := range []string{"", "7", "d7", "7 d", "7D", "sevendays", "-7d", "7.5h"} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, DefaultRefreshTTL, ParseTTL(input))
		})
	}
}
