package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_CloneIsDeep(t *testing.T) {
	orig := Document{"tags": []any{"go"}, "nested": map[string]any{"a": "b"}}
	cp := orig.Clone()

	cp["tags"].([]any)[0] = "rust"
	cp["nested"].(map[string]any)["a"] = "z"

	assert.Equal(t, "go", orig["tags"].([]any)[0])
	assert.Equal(t, "b", orig["nested"].(map[string]any)["a"])
}

func TestWritableFields(t *testing.T) {
	got := WritableFields(Document{FieldID: "x", FieldCreatedAt: "c", FieldUpdatedAt: "u", "title": "t"})
	assert.Equal(t, Document{"title": "t"}, got)
}

func TestSort(t *testing.T) {
	docs := []Document{
		{FieldID: "b", FieldCreatedAt: "2024-01-02"},
		{FieldID: "c"},
		{FieldID: "a", FieldCreatedAt: "2024-01-02"},
		{FieldID: "d", FieldCreatedAt: "2024-01-01"},
	}
	Sort(docs)

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.String(FieldID)
	}
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids)
}
