package newsclip

import (
	"errors"
	"strings"
)

// Tag holds a story tag. The absolute URL is the identity key.
type Tag struct {
	Name    string
	URL     string
	IsTopic bool
}

// NewTag validates and builds a tag. Tag anchors carry site-relative
// hrefs, so relative URLs are prefixed with the site's domain URL.
// Topic tags are recognized by their URL path.
func NewTag(name, rawURL, domainURL string) (*Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("the tag's name can't be an empty string")
	}
	if rawURL == "" {
		return nil, errors.New("the tag's URL can't be an empty string")
	}

	absURL := rawURL
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		absURL = domainURL + rawURL
	}

	return &Tag{
		Name:    strings.TrimSpace(name),
		URL:     absURL,
		IsTopic: strings.Contains(absURL, "/topics/"),
	}, nil
}

// String returns a short description of the tag.
func (t *Tag) String() string {
	return "Tag - name: " + t.Name + " - URL: " + t.URL
}
