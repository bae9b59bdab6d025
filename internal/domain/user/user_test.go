package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_SuggestedUsername(t *testing.T) {
	assert.Equal(t, "dev.one", Principal{Email: "Dev.One@example.com"}.SuggestedUsername())
	assert.Equal(t, "", Principal{}.SuggestedUsername())
	assert.True(t, Principal{}.IsZero())
	assert.False(t, Principal{ID: "u1"}.IsZero())
}
