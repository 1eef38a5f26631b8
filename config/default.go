package config

import "github.com/rmartin/newsclip"

// Selector prefixes shared by the built-in templates.
const (
	commonHeader = ".content-header"
	heroHeader   = ".c-globalHero_content"
	profileInfo  = "#profile-info"
	tagAnchors   = ".tagList > a.tag:not(.broadInterest)"
	topicAnchors = ".tagList > a.tag.broadInterest"
)

// Default returns the built-in CNET profile, already validated. It
// mirrors the two layouts the site serves: the classic content header
// and the Nuxt-rendered hero.
func Default() *Profile {
	p := &Profile{
		BaseURL:       "https://www.cnet.com/news/",
		DomainURL:     "https://www.cnet.com",
		AuthorURL:     "https://www.cnet.com/profiles/",
		TagURL:        "https://www.cnet.com/tags/",
		FeedURL:       "https://www.cnet.com/rss/news/",
		NewsURLFilter: "/news/",
		DefaultLimit:  10,

		ListingPatterns: []ListingPattern{
			{Selector: "#topStories > div", Extract: "a[href]"},
			{Selector: ".moreTopStories .assetBody", Extract: "a[href]"},
		},
		TagListing:    ListingPattern{Selector: ".tagList-page .assetBody", Extract: "a[href]"},
		AuthorListing: ListingPattern{Selector: "#ugc_content .result-list li", Extract: "a[href]"},

		StoryTemplates: []newsclip.Template{
			{
				Name:   "common",
				Header: commonHeader,
				Fields: map[string]string{
					"title":       commonHeader + " .c-head h1.speakableText",
					"description": commonHeader + " .c-head p.c-head_dek",
					"authors":     commonHeader + " .c-assetAuthor_authors a.author",
					"date":        commonHeader + " .c-assetAuthor_date time",
				},
			},
			{
				Name:   "nuxt",
				Header: heroHeader,
				Fields: map[string]string{
					"title":       heroHeader + " h1.c-globalHero_heading",
					"description": heroHeader + " p.c-globalHero_description",
					"authors":     heroHeader + " .c-globalAuthor_meta a.c-globalAuthor_link",
					"date":        heroHeader + " .c-globalAuthor_meta time",
				},
			},
		},
		StoryFields: []newsclip.FieldDescriptor{
			{Field: "title"},
			{Field: "description"},
			{Field: "authors", Multiple: true, Attr: "href"},
			{Field: "date"},
		},

		TagSelectors: map[string]string{
			"name": tagAnchors,
			"url":  tagAnchors,
		},
		TopicTagSelectors: map[string]string{
			"name": topicAnchors + " span.text",
			"url":  topicAnchors,
		},
		TagFields: []newsclip.FieldDescriptor{
			{Field: "name", Multiple: true, Optional: true},
			{Field: "url", Multiple: true, Attr: "href", Optional: true},
		},

		AuthorSelectors: map[string]string{
			"name":         profileInfo + ` h1 > span[itemprop="name"]`,
			"member_since": profileInfo + " > div:nth-child(3) > p:nth-child(1)",
			"location":     profileInfo + ` p[itemprop="address"] > span`,
			"occupation":   profileInfo + ` p > span[itemprop="title"]`,
			"website":      profileInfo + ` p > span[itemprop="url"]`,
		},
		AuthorFields: []newsclip.FieldDescriptor{
			{Field: "name"},
			{Field: "member_since"},
			{Field: "location", Optional: true},
			{Field: "occupation", Optional: true},
			{Field: "website", Optional: true},
		},
	}

	// The built-in profile is maintained alongside Validate; a failure
	// here is a programming error, not user input.
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}
