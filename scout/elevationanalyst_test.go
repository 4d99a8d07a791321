package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		gain float64
		want string
	}{
		{0, "flat - good for speed work"},
		{49, "flat - good for speed work"},
		{50, "rolling - moderate effort"},
		{149, "rolling - moderate effort"},
		{150, "hilly - strong effort"},
		{299, "hilly - strong effort"},
		{300, "very hilly - hill training territory"},
		{800, "very hilly - hill training territory"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, difficultyFor(tt.gain), "gain %.0f", tt.gain)
	}
}
