package newsclip

import (
	"fmt"
	"sync"
)

// Registry tracks the authors and tags discovered during one scraping
// session so that entities sharing an identity key resolve to a single
// instance. Registries are never persisted or shared across sessions.
//
// The mutex is held across the lookup-fetch-append sequence, so even
// when story pages are fetched by a worker pool two stories discovering
// the same author cannot create duplicate entries.
type Registry struct {
	mu      sync.Mutex
	authors []*Author
	tags    []*Tag
}

// TagPair is a freshly scraped (name, URL) tag anchor before
// reconciliation. Either side may be nil when the anchor only partially
// matched the tag template.
type TagPair struct {
	Name *string
	URL  *string
}

// AuthorFetchFunc materializes an author that has not been seen in the
// current session, typically by scraping the author's profile page.
type AuthorFetchFunc func(username string) (*Author, error)

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// ResolveAuthors maps usernames to author instances, reusing an existing
// instance when the username was already seen this session and invoking
// fetch for unseen usernames. Fetch failures don't stop resolution of
// the remaining usernames; they are collected and returned so the caller
// can apply its failure policy.
func (r *Registry) ResolveAuthors(usernames []string, fetch AuthorFetchFunc) ([]*Author, []error) {
	var resolved []*Author
	var errs []error

	for _, username := range usernames {
		r.mu.Lock()
		var found *Author
		for _, a := range r.authors {
			if a.Username == username {
				found = a
				break
			}
		}
		if found != nil {
			r.mu.Unlock()
			resolved = append(resolved, found)
			continue
		}

		author, err := fetch(username)
		if err != nil {
			r.mu.Unlock()
			errs = append(errs, fmt.Errorf("author %s: %w", username, err))
			continue
		}
		r.authors = append(r.authors, author)
		r.mu.Unlock()
		resolved = append(resolved, author)
	}

	return resolved, errs
}

// ResolveTags maps scraped (name, URL) pairs to tag instances, reusing
// an existing instance when the absolute URL was already seen this
// session. Pairs with a nil name or URL represent a template mismatch on
// an individual anchor and are dropped silently, as are pairs that fail
// tag validation.
func (r *Registry) ResolveTags(pairs []TagPair, domainURL string) []*Tag {
	var resolved []*Tag

	for _, p := range pairs {
		if p.Name == nil || p.URL == nil {
			continue
		}

		candidate, err := NewTag(*p.Name, *p.URL, domainURL)
		if err != nil {
			continue
		}

		r.mu.Lock()
		var found *Tag
		for _, t := range r.tags {
			if t.URL == candidate.URL {
				found = t
				break
			}
		}
		if found == nil {
			r.tags = append(r.tags, candidate)
			found = candidate
		}
		r.mu.Unlock()
		resolved = append(resolved, found)
	}

	return resolved
}

// Authors returns the authors discovered so far, in discovery order.
func (r *Registry) Authors() []*Author {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Author, len(r.authors))
	copy(out, r.authors)
	return out
}

// Tags returns the tags discovered so far, in discovery order.
func (r *Registry) Tags() []*Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Tag, len(r.tags))
	copy(out, r.tags)
	return out
}
