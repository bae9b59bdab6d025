package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSnippets(t *testing.T) {
	got := CleanSnippets([]CodeSnippet{{Code: "fmt.Println()"}, {Code: "   "}, {FileName: "empty.go"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "fmt.Println()", got[0].Code)
}

func TestPatch_SnippetsClearLegacyField(t *testing.T) {
	snips := []CodeSnippet{{Code: "x"}}
	f := Patch{CodeSnippets: &snips}.Fields()

	assert.Contains(t, f, LegacySnippetField)
	assert.Nil(t, f[LegacySnippetField])
	assert.Equal(t, snips, f["codeSnippets"])
}

func TestPatch_Apply(t *testing.T) {
	title := "Y"
	p := &Project{Title: "X", Description: "keep"}
	Patch{Title: &title}.Apply(p)

	assert.Equal(t, "Y", p.Title)
	assert.Equal(t, "keep", p.Description)
}

func TestImages(t *testing.T) {
	p := &Project{Image: "a", CodeSnippets: []CodeSnippet{{Image: "b"}}}
	assert.Equal(t, map[string]string{"image": "a", "codeSnippets[0].image": "b"}, p.Images())
}
