package scrape

import (
	"testing"

	"github.com/rmartin/newsclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dispatchFields = []newsclip.FieldDescriptor{
	{Field: "title"},
}

var dispatchTemplates = []newsclip.Template{
	{
		Name:   "common",
		Header: ".content-header",
		Fields: map[string]string{"title": ".content-header h1"},
	},
	{
		Name:   "hero",
		Header: ".hero",
		Fields: map[string]string{"title": ".hero h2"},
	},
}

// TestDispatch_FirstMatchWins verifies that templates are tried in
// order and the first matching header decides
func TestDispatch_FirstMatchWins(t *testing.T) {
	// Both headers are present; the common template is listed first.
	doc := parseHTML(t, `
		<div class="content-header"><h1>Common Title</h1></div>
		<div class="hero"><h2>Hero Title</h2></div>`)

	tmpl, record, err := Dispatch(doc.Selection, dispatchTemplates, dispatchFields, "https://example.com/story")
	require.NoError(t, err)
	assert.Equal(t, "common", tmpl.Name)

	title, ok := record.First("title")
	require.True(t, ok)
	assert.Equal(t, "Common Title", title)
}

// TestDispatch_FallbackTemplate verifies that a later template is used
// when earlier headers don't match
func TestDispatch_FallbackTemplate(t *testing.T) {
	doc := parseHTML(t, `<div class="hero"><h2>Hero Title</h2></div>`)

	tmpl, record, err := Dispatch(doc.Selection, dispatchTemplates, dispatchFields, "https://example.com/story")
	require.NoError(t, err)
	assert.Equal(t, "hero", tmpl.Name)

	title, ok := record.First("title")
	require.True(t, ok)
	assert.Equal(t, "Hero Title", title)
}

// TestDispatch_UnknownStructure verifies the error when no header
// matches
func TestDispatch_UnknownStructure(t *testing.T) {
	doc := parseHTML(t, `<div class="totally-new-layout"><h1>?</h1></div>`)

	_, _, err := Dispatch(doc.Selection, dispatchTemplates, dispatchFields, "https://example.com/story")
	require.Error(t, err)

	var unknown *UnknownStructureError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "https://example.com/story", unknown.URL)
}

// TestDispatch_MatchedTemplateMissingField verifies that a header match
// commits to the template: a missing required field is an extraction
// failure, not a reason to try the next template
func TestDispatch_MatchedTemplateMissingField(t *testing.T) {
	doc := parseHTML(t, `
		<div class="content-header"><p>no heading</p></div>
		<div class="hero"><h2>Hero Title</h2></div>`)

	_, _, err := Dispatch(doc.Selection, dispatchTemplates, dispatchFields, "https://example.com/story")
	require.Error(t, err)

	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}
