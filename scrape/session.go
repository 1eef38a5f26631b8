// Package scrape implements template-driven extraction of news stories:
// listing-page URL collection, layout dispatch, field extraction and
// per-session entity reconciliation.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rmartin/newsclip"
	"github.com/rmartin/newsclip/config"
)

// Mode selects the scraper's entry point.
type Mode string

const (
	ModeTopStories Mode = "top_stories"
	ModeAuthor     Mode = "author"
	ModeTag        Mode = "tag"
)

// URLLister supplies candidate story URLs from a source other than the
// site's hub page, such as its RSS feed.
type URLLister interface {
	ListURLs(ctx context.Context, limit int) ([]string, error)
}

// Options configures one scraping session. The zero value scrapes top
// stories with the profile's defaults, aborting on the first per-item
// failure.
type Options struct {
	Mode   Mode
	Author string // username, author mode only
	Tag    string // tag slug, tag mode only

	// Limit caps the number of stories scraped; 0 uses the profile's
	// default. The cap applies to the deduplicated candidate list.
	Limit int

	// FailSilently downgrades per-item failures (unknown structure,
	// missing fields, fetch errors) to warnings. When false, the first
	// such failure aborts the session.
	FailSilently bool

	// Workers sets the size of the story fetch pool; values below 2
	// keep the session strictly sequential.
	Workers int

	Fetcher Fetcher      // defaults to NewHTTPFetcher
	Lister  URLLister    // optional alternate listing source
	Logger  *slog.Logger // defaults to slog.Default
}

// Result is the entity graph accumulated by one session, handed to
// whichever sinks the caller configured.
type Result struct {
	SessionID uuid.UUID
	StartedAt time.Time
	Stories   []*newsclip.Story
	Authors   []*newsclip.Author
	Tags      []*newsclip.Tag
}

// Session drives one scraping run: collect candidate URLs, extract each
// story, reconcile authors and tags, and collect the results.
type Session struct {
	id       uuid.UUID
	profile  *config.Profile
	opts     Options
	fetcher  Fetcher
	lister   URLLister
	registry *newsclip.Registry
	log      *slog.Logger
}

// NewSession validates the options against the profile. Configuration
// errors surface here, before any fetch happens.
func NewSession(profile *config.Profile, opts Options) (*Session, error) {
	if profile == nil {
		return nil, fmt.Errorf("a site profile is required")
	}
	if opts.Mode == "" {
		opts.Mode = ModeTopStories
	}
	switch opts.Mode {
	case ModeTopStories, ModeAuthor, ModeTag:
	default:
		return nil, fmt.Errorf("scrape mode can only be one of top_stories, author or tag, not %q", opts.Mode)
	}
	if opts.Mode == ModeAuthor && opts.Author == "" {
		return nil, fmt.Errorf("an author needs to be passed to the scraper because author mode was set")
	}
	if opts.Mode == ModeTag && opts.Tag == "" {
		return nil, fmt.Errorf("a tag needs to be passed to the scraper because tag mode was set")
	}
	if opts.Author != "" && opts.Tag != "" {
		return nil, fmt.Errorf("author and tag are mutually exclusive")
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("the story limit can't be negative")
	}
	if opts.Limit == 0 {
		opts.Limit = profile.DefaultLimit
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()
	return &Session{
		id:       id,
		profile:  profile,
		opts:     opts,
		fetcher:  fetcher,
		lister:   opts.Lister,
		registry: newsclip.NewRegistry(),
		log:      logger.With("session", id.String()),
	}, nil
}

// Run executes the session. The returned error is fatal: either the
// listing stage failed or a per-item failure occurred with FailSilently
// off.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	urls, err := s.collectURLs(ctx)
	if err != nil {
		return nil, err
	}
	urls = dedupe(urls)
	if len(urls) > s.opts.Limit {
		urls = urls[:s.opts.Limit]
	}
	s.log.Info("collected story URLs", "mode", string(s.opts.Mode), "count", len(urls))

	stories, err := s.scrapeStories(ctx, urls)
	if err != nil {
		return nil, err
	}
	s.log.Info("session finished", "scraped", len(stories), "skipped", len(urls)-len(stories))

	return &Result{
		SessionID: s.id,
		StartedAt: started,
		Stories:   stories,
		Authors:   s.registry.Authors(),
		Tags:      s.registry.Tags(),
	}, nil
}

// collectURLs builds the candidate URL list for the configured mode.
// Finding nothing to scrape is fatal: it means the listing page's
// structure changed.
func (s *Session) collectURLs(ctx context.Context) ([]string, error) {
	if s.lister != nil {
		return s.lister.ListURLs(ctx, s.opts.Limit)
	}

	switch s.opts.Mode {
	case ModeAuthor:
		return s.collectFromListing(ctx, s.profile.AuthorURL+s.opts.Author, s.profile.AuthorListing,
			fmt.Sprintf("no stories by author %s were found", s.opts.Author))
	case ModeTag:
		return s.collectFromListing(ctx, s.profile.TagURL+s.opts.Tag, s.profile.TagListing,
			fmt.Sprintf("no stories with the tag %s were found", s.opts.Tag))
	default:
		return s.collectTopStories(ctx)
	}
}

// collectTopStories applies every hub-page listing pattern; the
// patterns address distinct page sections, so each must yield at least
// one link.
func (s *Session) collectTopStories(ctx context.Context) ([]string, error) {
	doc, err := fetchDocument(ctx, s.fetcher, s.profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("scraping the main site to get the news list failed: %w", err)
	}

	var urls []string
	for _, lp := range s.profile.ListingPatterns {
		found := lp.Path.EvaluateAll(doc.Find(lp.Selector), s.profile.Domain())
		if len(found) == 0 {
			return nil, fmt.Errorf("listing pattern %q matched nothing on %s", lp.Selector, s.profile.BaseURL)
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// collectFromListing fetches one listing page (tag or author) and
// extracts story links, keeping only news URLs.
func (s *Session) collectFromListing(ctx context.Context, pageURL string, lp config.ListingPattern, emptyMsg string) ([]string, error) {
	doc, err := fetchDocument(ctx, s.fetcher, pageURL)
	if err != nil {
		return nil, err
	}

	found := lp.Path.EvaluateAll(doc.Find(lp.Selector), s.profile.Domain())
	found = filterURLs(found, s.profile.NewsURLFilter)
	if len(found) == 0 {
		return nil, fmt.Errorf("%s", emptyMsg)
	}
	return found, nil
}

// scrapeStories extracts every candidate URL, sequentially or through a
// bounded worker pool. Story order always follows the candidate list.
func (s *Session) scrapeStories(ctx context.Context, urls []string) ([]*newsclip.Story, error) {
	if s.opts.Workers > 1 {
		return s.scrapeStoriesPooled(ctx, urls)
	}

	var stories []*newsclip.Story
	for i, u := range urls {
		s.log.Debug("scraping story", "index", i+1, "url", u)
		story, err := s.scrapeStory(ctx, u, i+1)
		if err != nil {
			if !s.opts.FailSilently {
				return nil, err
			}
			s.log.Warn("skipping story", "url", u, "error", err)
			continue
		}
		stories = append(stories, story)
	}
	return stories, nil
}

type storyResult struct {
	index int
	url   string
	story *newsclip.Story
	err   error
}

// scrapeStoriesPooled fans story fetches out to Workers goroutines. The
// registry's locking keeps entity reconciliation consistent; results
// are reassembled in candidate order.
func (s *Session) scrapeStoriesPooled(ctx context.Context, urls []string) ([]*newsclip.Story, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan storyResult, len(urls))

	var wg sync.WaitGroup
	for w := 0; w < s.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				story, err := s.scrapeStory(ctx, urls[i], i+1)
				results <- storyResult{index: i, url: urls[i], story: story, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range urls {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*newsclip.Story, len(urls))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if s.opts.FailSilently {
				s.log.Warn("skipping story", "url", r.url, "error", r.err)
				continue
			}
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		ordered[r.index] = r.story
	}
	if firstErr != nil {
		return nil, firstErr
	}

	var stories []*newsclip.Story
	for _, story := range ordered {
		if story != nil {
			stories = append(stories, story)
		}
	}
	return stories, nil
}

// scrapeStory fetches one article page, dispatches it against the
// profile's templates and builds the story with reconciled authors and
// tags.
func (s *Session) scrapeStory(ctx context.Context, pageURL string, index int) (*newsclip.Story, error) {
	doc, err := fetchDocument(ctx, s.fetcher, pageURL)
	if err != nil {
		return nil, err
	}

	_, record, err := Dispatch(doc.Selection, s.profile.StoryTemplates, s.profile.StoryFields, pageURL)
	if err != nil {
		return nil, err
	}

	tags := s.scrapeTags(doc, s.profile.TagSelectors)
	tags = append(tags, s.scrapeTags(doc, s.profile.TopicTagSelectors)...)

	authors, err := s.resolveAuthors(ctx, record.All("authors"))
	if err != nil {
		return nil, err
	}

	title, _ := record.First("title")
	description, _ := record.First("description")
	date, _ := record.First("date")

	story, err := newsclip.NewStory(index, title, description, date, authors, tags)
	if err != nil {
		return nil, fmt.Errorf("story %s: %w", pageURL, err)
	}
	story.URL = pageURL
	return story, nil
}

// scrapeTags extracts (name, URL) anchor pairs with one tag selector
// set and reconciles them against the session registry. Tag fields are
// optional, so a page without tags yields an empty list, and anchors
// that only partially match are dropped during reconciliation.
func (s *Session) scrapeTags(doc *goquery.Document, selectors map[string]string) []*newsclip.Tag {
	record, err := Extract(doc.Selection, selectors, s.profile.TagFields, "tag")
	if err != nil {
		// Tag fields are all optional; a mismatch on the whole block
		// just means the page carries no tags.
		return nil
	}
	return s.registry.ResolveTags(tagPairs(record), s.profile.DomainURL)
}

// resolveAuthors turns author anchor hrefs into reconciled author
// instances, fetching unseen profiles. Fetch failures follow the
// session's failure policy: logged and omitted, or fatal to the story.
func (s *Session) resolveAuthors(ctx context.Context, hrefs []*string) ([]*newsclip.Author, error) {
	var usernames []string
	for _, href := range hrefs {
		if href == nil {
			continue
		}
		if username, ok := usernameFromHref(*href); ok {
			usernames = append(usernames, username)
		}
	}

	authors, errs := s.registry.ResolveAuthors(usernames, func(username string) (*newsclip.Author, error) {
		return s.fetchAuthor(ctx, username)
	})
	for _, e := range errs {
		if !s.opts.FailSilently {
			return nil, e
		}
		s.log.Warn("skipping author", "error", e)
	}
	return authors, nil
}

// fetchAuthor scrapes an author's profile page with the profile's
// author template.
func (s *Session) fetchAuthor(ctx context.Context, username string) (*newsclip.Author, error) {
	doc, err := fetchDocument(ctx, s.fetcher, s.profile.AuthorURL+username)
	if err != nil {
		return nil, err
	}

	record, err := Extract(doc.Selection, s.profile.AuthorSelectors, s.profile.AuthorFields, "author")
	if err != nil {
		return nil, err
	}

	name, _ := record.First("name")
	memberSince, _ := record.First("member_since")
	return newsclip.NewAuthor(username, name, memberSince,
		record["location"].Text, record["occupation"].Text, record["website"].Text)
}

// usernameFromHref extracts the profile username from an author anchor
// href such as "/profiles/jdoe/". Multi-word usernames are joined with
// '+' the way the site's profile URLs expect.
func usernameFromHref(href string) (string, bool) {
	_, rest, ok := strings.Cut(href, "profiles/")
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" {
		return "", false
	}
	return strings.Join(strings.Fields(rest), "+"), true
}

// tagPairs zips the parallel name/url lists of a tag record. The lists
// line up because extraction keeps nil placeholders for missing
// attributes.
func tagPairs(record newsclip.Record) []newsclip.TagPair {
	names := record.All("name")
	urls := record.All("url")
	n := len(names)
	if len(urls) < n {
		n = len(urls)
	}

	pairs := make([]newsclip.TagPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, newsclip.TagPair{Name: names[i], URL: urls[i]})
	}
	return pairs
}

// filterURLs keeps only URLs containing the news-path substring.
func filterURLs(urls []string, substr string) []string {
	if substr == "" {
		return urls
	}
	var out []string
	for _, u := range urls {
		if strings.Contains(u, substr) {
			out = append(out, u)
		}
	}
	return out
}

// dedupe removes repeated URLs, keeping first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
