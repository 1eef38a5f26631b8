package store

import (
	"path/filepath"
	"testing"

	"github.com/rmartin/newsclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: open a store backed by a temp file
func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// Test helper: one story with one author and one tag
func testStory(t *testing.T) *newsclip.Story {
	t.Helper()
	location := "San Francisco"
	author, err := newsclip.NewAuthor("jdoe", "Jane Doe", "July 10, 2010", &location, nil, nil)
	require.NoError(t, err)
	tag, err := newsclip.NewTag("5G", "/5g/", "https://site.test")
	require.NoError(t, err)

	story, err := newsclip.NewStory(1, "Big News", "A description.", "June 1, 2024 9:00 a.m. PT",
		[]*newsclip.Author{author}, []*newsclip.Tag{tag})
	require.NoError(t, err)
	story.URL = "https://site.test/news/one/"
	return story
}

// Test helper: count rows in a table
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// TestSaveResults_PersistsGraph verifies that articles, authors, tags
// and their join rows all land
func TestSaveResults_PersistsGraph(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.SaveResults([]*newsclip.Story{testStory(t)}))

	assert.Equal(t, 1, countRows(t, s, "article"))
	assert.Equal(t, 1, countRows(t, s, "author"))
	assert.Equal(t, 1, countRows(t, s, "hashtag"))
	assert.Equal(t, 1, countRows(t, s, "article_author"))
	assert.Equal(t, 1, countRows(t, s, "article_hashtag"))

	var title, date string
	require.NoError(t, s.db.QueryRow("SELECT title, date FROM article").Scan(&title, &date))
	assert.Equal(t, "Big News", title)
	assert.Equal(t, "2024-06-01 09:00:00", date, "dates are normalized on the way in")

	var nick, memberSince string
	var location *string
	require.NoError(t, s.db.QueryRow("SELECT nick_name, member_since, location FROM author").
		Scan(&nick, &memberSince, &location))
	assert.Equal(t, "jdoe", nick)
	assert.Equal(t, "2010-07-10", memberSince)
	require.NotNil(t, location)
	assert.Equal(t, "San Francisco", *location)

	var tagURL string
	var isTopic bool
	require.NoError(t, s.db.QueryRow("SELECT url, is_topic FROM hashtag").Scan(&tagURL, &isTopic))
	assert.Equal(t, "https://site.test/5g/", tagURL)
	assert.False(t, isTopic)
}

// TestSaveResults_Idempotent verifies that saving the same session
// twice refreshes rows instead of duplicating them
func TestSaveResults_Idempotent(t *testing.T) {
	s := testStore(t)
	stories := []*newsclip.Story{testStory(t)}

	require.NoError(t, s.SaveResults(stories))
	require.NoError(t, s.SaveResults(stories))

	assert.Equal(t, 1, countRows(t, s, "article"))
	assert.Equal(t, 1, countRows(t, s, "author"))
	assert.Equal(t, 1, countRows(t, s, "hashtag"))
	assert.Equal(t, 1, countRows(t, s, "article_author"))
	assert.Equal(t, 1, countRows(t, s, "article_hashtag"))
}

// TestSaveResults_UpsertRefreshes verifies that a re-scraped article
// keyed by title picks up new values
func TestSaveResults_UpsertRefreshes(t *testing.T) {
	s := testStore(t)
	story := testStory(t)
	require.NoError(t, s.SaveResults([]*newsclip.Story{story}))

	story.Description = "An updated description."
	require.NoError(t, s.SaveResults([]*newsclip.Story{story}))

	var description string
	require.NoError(t, s.db.QueryRow("SELECT description FROM article").Scan(&description))
	assert.Equal(t, "An updated description.", description)
	assert.Equal(t, 1, countRows(t, s, "article"))
}

// TestSaveResults_SharedAuthor verifies that two articles by one author
// share a single author row
func TestSaveResults_SharedAuthor(t *testing.T) {
	s := testStore(t)
	author, err := newsclip.NewAuthor("jdoe", "Jane Doe", "July 10, 2010", nil, nil, nil)
	require.NoError(t, err)

	one, err := newsclip.NewStory(1, "Story One", "d", "June 1, 2024", []*newsclip.Author{author}, nil)
	require.NoError(t, err)
	two, err := newsclip.NewStory(2, "Story Two", "d", "June 2, 2024", []*newsclip.Author{author}, nil)
	require.NoError(t, err)

	require.NoError(t, s.SaveResults([]*newsclip.Story{one, two}))

	assert.Equal(t, 2, countRows(t, s, "article"))
	assert.Equal(t, 1, countRows(t, s, "author"))
	assert.Equal(t, 2, countRows(t, s, "article_author"))
}

// TestNormalizeDateTime verifies the site-format conversions and the
// raw fallback
func TestNormalizeDateTime(t *testing.T) {
	assert.Equal(t, "2024-06-01 09:00:00", normalizeDateTime("June 1, 2024 9:00 a.m. PT"))
	assert.Equal(t, "2024-06-01 17:30:00", normalizeDateTime("June 1, 2024 5:30 p.m. PT"))
	assert.Equal(t, "not a date at all", normalizeDateTime("not a date at all"))
}

// TestNormalizeDate verifies date-only conversion and the raw fallback
func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2010-07-10", normalizeDate("July 10, 2010"))
	assert.Equal(t, "whenever", normalizeDate("whenever"))
}
