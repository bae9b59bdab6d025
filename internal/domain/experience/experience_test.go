package experience

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrg(t *testing.T) {
	assert.Equal(t, "Acme", (&Experience{Type: KindWork, Company: "Acme", Institution: "MIT"}).Org())
	assert.Equal(t, "MIT", (&Experience{Type: KindEducation, Company: "Acme", Institution: "MIT"}).Org())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Experience{Type: KindWork}).Validate())
	assert.ErrorIs(t, (&Experience{Type: "hobby"}).Validate(), ErrInvalidKind)

	bad := Kind("job")
	assert.ErrorIs(t, Patch{Type: &bad}.Validate(), ErrInvalidKind)
	assert.NoError(t, Patch{}.Validate())
}

func TestPatch_KeepsUntouchedFields(t *testing.T) {
	title := "Senior Engineer"
	e := &Experience{Type: KindWork, Title: "Engineer"}
	p := Patch{Title: &title}
	p.Apply(e)

	assert.Equal(t, map[string]any{"title": "Senior Engineer"}, p.Fields())
	assert.Equal(t, KindWork, e.Type)
	assert.Equal(t, "Senior Engineer", e.Title)
}
