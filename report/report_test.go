package report

import (
	"strings"
	"testing"
	"time"

	"github.com/rmartin/newsclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: build a story with one author and optional tags
func testStory(t *testing.T, index int, title string, tags []*newsclip.Tag) (*newsclip.Story, *newsclip.Author) {
	t.Helper()
	author, err := newsclip.NewAuthor("jdoe", "Jane Doe", "July 10, 2010", nil, nil, nil)
	require.NoError(t, err)

	story, err := newsclip.NewStory(index, title, "A description.", "June 1, 2024", []*newsclip.Author{author}, tags)
	require.NoError(t, err)
	story.URL = "https://site.test/news/one/"
	return story, author
}

// TestWriteSession_Format verifies the full session block: header,
// delimiters, story and author sections
func TestWriteSession_Format(t *testing.T) {
	tag, err := newsclip.NewTag("5G", "/5g/", "https://site.test")
	require.NoError(t, err)
	story, author := testStory(t, 1, "Big News", []*newsclip.Tag{tag})

	started := time.Date(2024, 6, 1, 9, 30, 5, 0, time.UTC)

	var buf strings.Builder
	err = New(&buf).WriteSession(started, []*newsclip.Story{story}, []*newsclip.Author{author})
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Scraping session: 01/06/2024, 09:30:05\n\n"),
		"the header carries a day-first timestamp")
	assert.Equal(t, 3, strings.Count(out, "====================\n"), "three delimiter lines frame the sections")

	assert.Contains(t, out, "\n\nStory 1:\n")
	assert.Contains(t, out, "Title: Big News\n")
	assert.Contains(t, out, "Description: A description.\n")
	assert.Contains(t, out, "Author/s: jdoe\n")
	assert.Contains(t, out, "Date: June 1, 2024\n")
	assert.Contains(t, out, "URL: https://site.test/news/one/\n")
	assert.Contains(t, out, "Tags:\n- 5G (https://site.test/5g/)\n")

	assert.Contains(t, out, "\n\nAuthor jdoe:\n")
	assert.Contains(t, out, "Name: Jane Doe\n")
	assert.Contains(t, out, "Member since: July 10, 2010\n")
	assert.NotContains(t, out, "Location:", "absent optional fields produce no line")

	assert.True(t, strings.HasSuffix(out, "====================\n\n\n"), "sessions end with a blank gap for appending")
}

// TestWriteSession_MultipleAuthorsJoined verifies the comma-joined
// author line
func TestWriteSession_MultipleAuthorsJoined(t *testing.T) {
	a1, err := newsclip.NewAuthor("jdoe", "Jane Doe", "July 10, 2010", nil, nil, nil)
	require.NoError(t, err)
	a2, err := newsclip.NewAuthor("asmith", "Alex Smith", "March 3, 2015", nil, nil, nil)
	require.NoError(t, err)

	story, err := newsclip.NewStory(1, "Shared", "A description.", "June 1, 2024", []*newsclip.Author{a1, a2}, nil)
	require.NoError(t, err)

	var buf strings.Builder
	err = New(&buf).WriteSession(time.Now(), []*newsclip.Story{story}, []*newsclip.Author{a1, a2})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Author/s: jdoe, asmith\n")
}

// TestWriteSession_OptionalAuthorFields verifies that present optional
// profile fields get their own lines
func TestWriteSession_OptionalAuthorFields(t *testing.T) {
	location := "San Francisco"
	website := "https://jane.example"
	author, err := newsclip.NewAuthor("jdoe", "Jane Doe", "July 10, 2010", &location, nil, &website)
	require.NoError(t, err)
	story, err := newsclip.NewStory(1, "Big News", "A description.", "June 1, 2024", []*newsclip.Author{author}, nil)
	require.NoError(t, err)

	var buf strings.Builder
	err = New(&buf).WriteSession(time.Now(), []*newsclip.Story{story}, []*newsclip.Author{author})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Location: San Francisco\n")
	assert.Contains(t, out, "Website: https://jane.example\n")
	assert.NotContains(t, out, "Occupation:")
}

// TestWriteSession_NoTagsNoTagLine verifies that untagged stories omit
// the tag section entirely
func TestWriteSession_NoTagsNoTagLine(t *testing.T) {
	story, author := testStory(t, 1, "Big News", nil)

	var buf strings.Builder
	err := New(&buf).WriteSession(time.Now(), []*newsclip.Story{story}, []*newsclip.Author{author})
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "Tags:")
}
