package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rmartin/newsclip"
)

// Extract pulls the descriptor-listed fields out of a document using a
// field-to-selector map. Fields are processed in declaration order. The
// returned record has an entry for every descriptor: absent optional
// fields are explicit zero values. A required field with zero matches
// fails the whole extraction.
func Extract(doc *goquery.Selection, selectors map[string]string, fields []newsclip.FieldDescriptor, entity string) (newsclip.Record, error) {
	record := make(newsclip.Record, len(fields))

	for _, f := range fields {
		sel := doc.Find(selectors[f.Field])

		if sel.Length() == 0 {
			if f.Optional {
				record[f.Field] = newsclip.FieldValue{}
				continue
			}
			return nil, &MissingFieldError{Entity: entity, Field: f.Field}
		}

		if f.Multiple {
			record[f.Field] = newsclip.FieldValue{Texts: extractAll(sel, f.Attr)}
		} else {
			record[f.Field] = newsclip.FieldValue{Text: extractOne(sel.First(), f.Attr)}
		}
	}

	return record, nil
}

// extractOne reads a single element's text or attribute. A nil return
// means the element lacked the requested attribute.
func extractOne(sel *goquery.Selection, attr string) *string {
	if attr == "" {
		text := strings.TrimSpace(sel.Text())
		return &text
	}
	val, ok := sel.Attr(attr)
	if !ok {
		return nil
	}
	return &val
}

// extractAll reads every matched element in document order, keeping nil
// placeholders for elements missing the requested attribute so the
// positions of parallel fields (e.g. tag names and tag URLs) line up.
func extractAll(sel *goquery.Selection, attr string) []*string {
	out := make([]*string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, extractOne(s, attr))
	})
	return out
}
