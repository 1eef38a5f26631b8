// Package report renders a scraping session as a fixed block of
// labeled lines, for the console or an append-only report file.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rmartin/newsclip"
)

const delimiter = "===================="

// Writer renders sessions to an underlying stream.
type Writer struct {
	w io.Writer
}

// New creates a report writer.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSession appends one session's stories and authors, framed by a
// timestamp header and delimiter lines.
func (r *Writer) WriteSession(startedAt time.Time, stories []*newsclip.Story, authors []*newsclip.Author) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Scraping session: %s\n\n", startedAt.Format("02/01/2006, 15:04:05"))
	b.WriteString(delimiter + "\n")

	for _, story := range stories {
		writeStory(&b, story)
	}
	b.WriteString(delimiter + "\n")

	for _, author := range authors {
		writeAuthor(&b, author)
	}
	b.WriteString(delimiter + "\n\n\n")

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeStory(b *strings.Builder, story *newsclip.Story) {
	usernames := make([]string, len(story.Authors))
	for i, a := range story.Authors {
		usernames[i] = a.Username
	}

	fmt.Fprintf(b, "\n\nStory %d:\n", story.Index)
	fmt.Fprintf(b, "Title: %s\n", story.Title)
	fmt.Fprintf(b, "Description: %s\n", story.Description)
	fmt.Fprintf(b, "Author/s: %s\n", strings.Join(usernames, ", "))
	fmt.Fprintf(b, "Date: %s\n", story.Date)
	fmt.Fprintf(b, "URL: %s\n", story.URL)

	if len(story.Tags) > 0 {
		b.WriteString("Tags:\n")
		for _, tag := range story.Tags {
			fmt.Fprintf(b, "- %s (%s)\n", tag.Name, tag.URL)
		}
	}
}

func writeAuthor(b *strings.Builder, author *newsclip.Author) {
	fmt.Fprintf(b, "\n\nAuthor %s:\n", author.Username)
	fmt.Fprintf(b, "Name: %s\n", author.Name)
	fmt.Fprintf(b, "Member since: %s\n", author.MemberSince)

	if author.Location != nil {
		fmt.Fprintf(b, "Location: %s\n", *author.Location)
	}
	if author.Occupation != nil {
		fmt.Fprintf(b, "Occupation: %s\n", *author.Occupation)
	}
	if author.Website != nil {
		fmt.Fprintf(b, "Website: %s\n", *author.Website)
	}
}
