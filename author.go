package newsclip

import (
	"errors"
	"strings"
)

// Author holds the profile information for a story author. The username
// is the identity key: two authors with the same username are the same
// entity and must share one instance within a scraping session.
type Author struct {
	Username    string
	Name        string
	MemberSince string
	Location    *string
	Occupation  *string
	Website     *string
}

// NewAuthor validates and builds an author. Location, occupation and
// website are optional profile fields; nil means the profile page did
// not carry them.
func NewAuthor(username, name, memberSince string, location, occupation, website *string) (*Author, error) {
	if username == "" {
		return nil, errors.New("an author cannot be created without a username")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("a name needs to be provided to an author")
	}
	since := memberSinceDate(memberSince)
	if since == "" {
		return nil, errors.New("a member-since date needs to be provided to an author")
	}

	return &Author{
		Username:    username,
		Name:        name,
		MemberSince: since,
		Location:    trimOptional(location),
		Occupation:  trimOptional(occupation),
		Website:     trimOptional(website),
	}, nil
}

// String returns the author's display name.
func (a *Author) String() string {
	return a.Name
}

// memberSinceDate pulls the join date out of the profile's member-since
// block. The page renders a label line followed by the date on its own
// line, so the last non-empty line is the date.
func memberSinceDate(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
