// Package selector implements the dotted path mini-language used to
// pull a value out of a matched document element. A path descends
// through tag names and ends in an extraction mode:
//
//	div.h2.text    text of the h2 under the first nested div
//	div.a[href]    href of the first anchor under the div
//
// Paths are parsed once at configuration time and evaluated many times
// against parsed documents.
package selector

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mode identifies what the terminal segment of a path extracts.
type Mode int

const (
	// ModeText extracts the normalized inner text of the current node.
	ModeText Mode = iota
	// ModeAttr locates a child by tag and reads one of its attributes.
	ModeAttr
)

// Path is a parsed selector path: a sequence of plain tag-name segments
// to descend through, terminated by an extraction mode.
type Path struct {
	tags []string
	mode Mode
	tag  string // terminal tag, attribute mode only
	attr string
}

// Parse validates and compiles a path expression. Non-terminal segments
// must be plain tag names; the terminal segment must be the literal
// "text" or of the form "tag[attr]".
func Parse(expr string) (Path, error) {
	if strings.TrimSpace(expr) == "" {
		return Path{}, fmt.Errorf("selector path is empty")
	}

	segments := strings.Split(expr, ".")
	last := segments[len(segments)-1]
	inner := segments[:len(segments)-1]

	var p Path
	switch {
	case last == "text":
		p.mode = ModeText
	case strings.Contains(last, "["):
		tag, attr, ok := parseAttrSegment(last)
		if !ok {
			return Path{}, fmt.Errorf("selector path %q: malformed attribute segment %q", expr, last)
		}
		p.mode = ModeAttr
		p.tag = tag
		p.attr = attr
	default:
		return Path{}, fmt.Errorf("selector path %q: must end in .text or tag[attr]", expr)
	}

	for _, seg := range inner {
		if !isTagName(seg) {
			return Path{}, fmt.Errorf("selector path %q: segment %q is not a plain tag name", expr, seg)
		}
	}
	p.tags = inner

	return p, nil
}

// MustParse is Parse for built-in path literals known to be valid.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Attr returns the attribute name read by an attribute-mode path, or ""
// for a text-mode path.
func (p Path) Attr() string {
	return p.attr
}

// String reassembles the path expression.
func (p Path) String() string {
	parts := append([]string{}, p.tags...)
	if p.mode == ModeText {
		parts = append(parts, "text")
	} else {
		parts = append(parts, p.tag+"["+p.attr+"]")
	}
	return strings.Join(parts, ".")
}

// Evaluate resolves the path against a document node. Descent takes the
// first matching descendant per segment, depth-first. The boolean is
// false when any segment fails to resolve or the terminal attribute is
// missing; that outcome is a recoverable per-item condition, not an
// error. href and src values are resolved against base when given.
func (p Path) Evaluate(sel *goquery.Selection, base *url.URL) (string, bool) {
	cur := sel
	for _, tag := range p.tags {
		cur = cur.Find(tag).First()
		if cur.Length() == 0 {
			return "", false
		}
	}

	if p.mode == ModeText {
		return strings.TrimSpace(cur.Text()), true
	}

	node := cur.Find(p.tag).First()
	if node.Length() == 0 {
		return "", false
	}
	val, ok := node.Attr(p.attr)
	if !ok {
		return "", false
	}
	if base != nil && (p.attr == "href" || p.attr == "src") {
		val = resolveURL(base, val)
	}
	return val, true
}

// EvaluateAll applies the path to every candidate element, dropping
// candidates the path cannot resolve against. Order follows the
// candidates' document order.
func (p Path) EvaluateAll(candidates *goquery.Selection, base *url.URL) []string {
	var out []string
	candidates.Each(func(_ int, s *goquery.Selection) {
		if val, ok := p.Evaluate(s, base); ok {
			out = append(out, val)
		}
	})
	return out
}

// parseAttrSegment splits "tag[attr]" into its parts.
func parseAttrSegment(seg string) (tag, attr string, ok bool) {
	open := strings.Index(seg, "[")
	if open < 1 || !strings.HasSuffix(seg, "]") {
		return "", "", false
	}
	tag = seg[:open]
	attr = seg[open+1 : len(seg)-1]
	if !isTagName(tag) || attr == "" {
		return "", "", false
	}
	return tag, attr, true
}

// isTagName reports whether s looks like a bare HTML tag name.
func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
