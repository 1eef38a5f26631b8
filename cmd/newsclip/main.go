package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rmartin/newsclip/config"
	"github.com/rmartin/newsclip/feed"
	"github.com/rmartin/newsclip/report"
	"github.com/rmartin/newsclip/scrape"
	"github.com/rmartin/newsclip/store"
)

// Exit codes.
const (
	exitOK     = 0
	exitUsage  = 1 // invalid input or configuration
	exitScrape = 2 // structural or runtime scraping failure
	exitFile   = 3 // filesystem error
)

func main() {
	args := os.Args[1:]

	// The mode is an optional leading argument; everything else is
	// flags.
	mode := string(scrape.ModeTopStories)
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}
	if mode == "help" {
		printUsage()
		os.Exit(exitOK)
	}

	fs := flag.NewFlagSet("newsclip", flag.ExitOnError)
	author := fs.String("author", "", "Author username to scrape (author mode)")
	tag := fs.String("tag", "", "Tag slug to scrape (tag mode)")
	limit := fs.Int("n", 0, "Maximum number of stories to scrape (default: profile setting)")
	output := fs.String("o", "scraping.txt", "Report file to append to")
	consoleOnly := fs.Bool("console", false, "Print the report to stdout instead of a file")
	dbPath := fs.String("db", "", "SQLite database to upsert results into")
	profilePath := fs.String("config", "", "Site profile YAML (default: built-in profile)")
	useFeed := fs.Bool("feed", false, "Collect story URLs from the site's RSS feed")
	failSilently := fs.Bool("fail-silently", false, "Skip stories that fail to scrape instead of aborting")
	workers := fs.Int("workers", 1, "Number of concurrent story fetches")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(args)

	if *author != "" && *tag != "" {
		fmt.Fprintf(os.Stderr, "Error: -author and -tag are mutually exclusive\n")
		os.Exit(exitUsage)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load the site profile; a bad profile is a configuration error.
	profile := config.Default()
	if *profilePath != "" {
		loaded, err := config.Load(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		profile = loaded
	}

	opts := scrape.Options{
		Mode:         scrape.Mode(mode),
		Author:       *author,
		Tag:          *tag,
		Limit:        *limit,
		FailSilently: *failSilently,
		Workers:      *workers,
	}
	if *useFeed {
		if profile.FeedURL == "" {
			fmt.Fprintf(os.Stderr, "Error: the site profile has no feed_url\n")
			os.Exit(exitUsage)
		}
		opts.Lister = feed.NewSource(profile.FeedURL, profile.NewsURLFilter)
	}

	session, err := scrape.NewSession(profile, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}

	result, err := session.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitScrape)
	}

	if *dbPath != "" {
		if err := saveToDatabase(*dbPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitScrape)
		}
		fmt.Printf("✓ Saved %d stories to %s\n", len(result.Stories), *dbPath)
	}

	if *consoleOnly {
		if err := report.New(os.Stdout).WriteSession(result.StartedAt, result.Stories, result.Authors); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitFile)
		}
		return
	}

	if err := appendReport(*output, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFile)
	}
	fmt.Printf("✓ Appended %d stories to %s\n", len(result.Stories), *output)
}

func saveToDatabase(path string, result *scrape.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveResults(result.Stories)
}

func appendReport(path string, result *scrape.Result) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	if err := report.New(f).WriteSession(result.StartedAt, result.Stories, result.Authors); err != nil {
		return err
	}
	return f.Close()
}

func printUsage() {
	fmt.Println("newsclip - template-driven news scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsclip [mode] [flags]")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  top_stories  Scrape the site's top stories (default)")
	fmt.Println("  author       Scrape stories by one author (-author required)")
	fmt.Println("  tag          Scrape stories with one tag (-tag required)")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -author string   Author username to scrape")
	fmt.Println("  -tag string      Tag slug to scrape")
	fmt.Println("  -n int           Maximum number of stories to scrape")
	fmt.Println("  -o string        Report file to append to (default scraping.txt)")
	fmt.Println("  -console         Print the report instead of writing a file")
	fmt.Println("  -db string       SQLite database to upsert results into")
	fmt.Println("  -config string   Site profile YAML (default: built-in profile)")
	fmt.Println("  -feed            Collect story URLs from the site's RSS feed")
	fmt.Println("  -fail-silently   Skip stories that fail to scrape")
	fmt.Println("  -workers int     Number of concurrent story fetches")
	fmt.Println("  -verbose         Enable debug logging")
}
