package newsclip

import (
	"errors"
	"strings"
)

// Story holds the content extracted from a single news article page.
// A story is created once per successfully matched document; only its
// URL is attached after construction.
type Story struct {
	Index       int
	Title       string
	Description string
	Date        string
	URL         string
	Authors     []*Author
	Tags        []*Tag
}

// NewStory validates and builds a story. The index is 1-based and scoped
// to a single scraping session. The date is kept as the raw string shown
// on the page; sinks decide how (and whether) to normalize it.
func NewStory(index int, title, description, date string, authors []*Author, tags []*Tag) (*Story, error) {
	if index < 1 {
		return nil, errors.New("a positive index needs to be provided to a story")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("a title needs to be provided to a story")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("a description needs to be provided to a story")
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, errors.New("a date needs to be provided to a story")
	}
	if len(authors) == 0 {
		return nil, errors.New("at least one author needs to be provided to a story")
	}

	return &Story{
		Index:       index,
		Title:       title,
		Description: description,
		Date:        date,
		Authors:     authors,
		Tags:        tags,
	}, nil
}

// String returns the story's title.
func (s *Story) String() string {
	return s.Title
}
