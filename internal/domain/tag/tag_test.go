package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Go ", "", "SQL", "go", "  "})
	assert.Equal(t, []string{"Go", "SQL"}, got)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"React", "Go"}, Split("React, Go,", ","))
	assert.Equal(t, []string{"Fast", "Small"}, Split("Fast\n\nSmall\n", "\n"))
	assert.Equal(t, []string{}, Split("  ", ","))
}
