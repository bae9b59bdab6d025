package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestUpdate_FieldsOnlySetValues(t *testing.T) {
	u := Update{Name: ptr("Dev One"), Skills: ptr([]string{"Go"})}
	assert.Equal(t, map[string]any{"name": "Dev One", "skills": []string{"Go"}}, u.Fields())
	assert.True(t, Update{}.IsEmpty())
}

func TestUpdate_Apply(t *testing.T) {
	p := &Profile{Name: "Old", Bio: "keep"}
	Update{Name: ptr("New"), Username: ptr("dev1")}.Apply(p)

	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "keep", p.Bio)
	assert.Equal(t, "dev1", p.Username)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("dev1"))
	assert.NoError(t, ValidateUsername("Dev.One_2"))
	assert.ErrorIs(t, ValidateUsername(""), ErrInvalidUsername)
	assert.ErrorIs(t, ValidateUsername("has space"), ErrInvalidUsername)
	assert.ErrorIs(t, ValidateUsername("blog"), ErrReservedUsername)
}
