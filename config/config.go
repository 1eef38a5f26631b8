// Package config holds the site profile: where the scraper enters the
// site and which selector templates describe its page layouts. Profiles
// are validated once at load time so extraction never has to re-check
// selector syntax.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/rmartin/newsclip"
	"github.com/rmartin/newsclip/selector"
	"gopkg.in/yaml.v3"
)

// ListingPattern locates candidate story links on a listing page: a CSS
// selector picks the candidate elements, and a selector path pulls the
// link out of each one.
type ListingPattern struct {
	Selector string `yaml:"selector"`
	Extract  string `yaml:"extract"`

	// Path is the compiled form of Extract, populated by Validate.
	Path selector.Path `yaml:"-"`
}

func (lp *ListingPattern) compile() error {
	p, err := selector.Parse(lp.Extract)
	if err != nil {
		return err
	}
	if lp.Selector == "" {
		return fmt.Errorf("listing pattern %q: a selector is required", lp.Extract)
	}
	lp.Path = p
	return nil
}

// Profile describes one news site: entry URLs, listing patterns, the
// ordered story templates and the tag/author extraction setup.
type Profile struct {
	BaseURL   string `yaml:"base_url"`
	DomainURL string `yaml:"domain_url"`
	AuthorURL string `yaml:"author_url"`
	TagURL    string `yaml:"tag_url"`
	FeedURL   string `yaml:"feed_url"`

	// NewsURLFilter keeps only candidate links containing this
	// substring; listing pages link to videos and galleries too.
	NewsURLFilter string `yaml:"news_url_filter"`

	// DefaultLimit caps the number of stories scraped when the caller
	// doesn't pass one.
	DefaultLimit int `yaml:"default_limit"`

	ListingPatterns []ListingPattern `yaml:"listing_patterns"`
	TagListing      ListingPattern   `yaml:"tag_listing"`
	AuthorListing   ListingPattern   `yaml:"author_listing"`

	// StoryTemplates is ordered by priority: the dispatcher stops at
	// the first template whose header matches.
	StoryTemplates []newsclip.Template        `yaml:"story_templates"`
	StoryFields    []newsclip.FieldDescriptor `yaml:"story_fields"`

	TagSelectors      map[string]string          `yaml:"tag_selectors"`
	TopicTagSelectors map[string]string          `yaml:"topic_tag_selectors"`
	TagFields         []newsclip.FieldDescriptor `yaml:"tag_fields"`

	AuthorSelectors map[string]string          `yaml:"author_selectors"`
	AuthorFields    []newsclip.FieldDescriptor `yaml:"author_fields"`

	domain *url.URL
}

// Load reads and validates a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile once so that a bad selector or template
// surfaces before any page is fetched.
func (p *Profile) Validate() error {
	if p.BaseURL == "" || p.DomainURL == "" {
		return fmt.Errorf("profile: base_url and domain_url are required")
	}
	domain, err := url.Parse(p.DomainURL)
	if err != nil || domain.Scheme == "" || domain.Host == "" {
		return fmt.Errorf("profile: domain_url %q is not an absolute URL", p.DomainURL)
	}
	p.domain = domain

	if p.DefaultLimit <= 0 {
		return fmt.Errorf("profile: default_limit must be positive")
	}
	if len(p.ListingPatterns) == 0 {
		return fmt.Errorf("profile: at least one listing pattern is required")
	}
	for i := range p.ListingPatterns {
		if err := p.ListingPatterns[i].compile(); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}
	if p.TagListing.Extract != "" {
		if err := p.TagListing.compile(); err != nil {
			return fmt.Errorf("profile: tag listing: %w", err)
		}
	}
	if p.AuthorListing.Extract != "" {
		if err := p.AuthorListing.compile(); err != nil {
			return fmt.Errorf("profile: author listing: %w", err)
		}
	}

	if err := newsclip.ValidateDescriptors(p.StoryFields); err != nil {
		return fmt.Errorf("profile: story fields: %w", err)
	}
	if len(p.StoryTemplates) == 0 {
		return fmt.Errorf("profile: at least one story template is required")
	}
	for _, t := range p.StoryTemplates {
		if err := t.Validate(p.StoryFields); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}

	if err := newsclip.ValidateDescriptors(p.TagFields); err != nil {
		return fmt.Errorf("profile: tag fields: %w", err)
	}
	if err := coversFields(p.TagSelectors, p.TagFields, "tag_selectors"); err != nil {
		return err
	}
	if err := coversFields(p.TopicTagSelectors, p.TagFields, "topic_tag_selectors"); err != nil {
		return err
	}

	if err := newsclip.ValidateDescriptors(p.AuthorFields); err != nil {
		return fmt.Errorf("profile: author fields: %w", err)
	}
	if err := coversFields(p.AuthorSelectors, p.AuthorFields, "author_selectors"); err != nil {
		return err
	}

	return nil
}

// Domain returns the parsed domain URL. Valid after Validate.
func (p *Profile) Domain() *url.URL {
	return p.domain
}

func coversFields(selectors map[string]string, fields []newsclip.FieldDescriptor, name string) error {
	for _, f := range fields {
		if _, ok := selectors[f.Field]; !ok {
			return fmt.Errorf("profile: %s: no selector for field %q", name, f.Field)
		}
	}
	return nil
}
