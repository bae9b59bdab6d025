package media

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dataURL(n int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", n)))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(""))
	assert.NoError(t, Validate("https://example.com/a.png"))
	assert.NoError(t, Validate(dataURL(16)))
	assert.NoError(t, Validate(dataURL(MaxInlineBytes)))

	assert.ErrorIs(t, Validate(dataURL(MaxInlineBytes+1)), ErrImageTooLarge)
	assert.ErrorIs(t, Validate("ftp://example.com/a.png"), ErrInvalidImage)
	assert.ErrorIs(t, Validate("data:image/png;base64,@@@"), ErrInvalidImage)
	assert.ErrorIs(t, Validate("data:text/plain;base64,aGk="), ErrInvalidImage)
}

func TestValidateAll_NamesField(t *testing.T) {
	err := ValidateAll(map[string]string{"photoURL": "nope"})
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "photoURL")
}
