package scrape

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rmartin/newsclip"
)

// Dispatch tries each template in the caller-supplied order and
// extracts the document with the first one whose header selector
// matches. The order encodes priority: common layouts first, fallback
// layouts last. When no header matches, an UnknownStructureError is
// returned and field extraction is never attempted.
func Dispatch(doc *goquery.Selection, templates []newsclip.Template, fields []newsclip.FieldDescriptor, pageURL string) (*newsclip.Template, newsclip.Record, error) {
	for i := range templates {
		tmpl := &templates[i]
		if doc.Find(tmpl.Header).Length() == 0 {
			continue
		}
		record, err := Extract(doc, tmpl.Fields, fields, "story")
		if err != nil {
			return nil, nil, err
		}
		return tmpl, record, nil
	}

	return nil, nil, &UnknownStructureError{URL: pageURL}
}
