package typst

import (
	"regexp"
	"strconv"
	"strings"
)

// Kinds of protected region. Heading kinds carry their level.
const (
	kindMath = "MATH"
	kindH1   = "H1"
	kindH2   = "H2"
	kindH3   = "H3"
	kindH4   = "H4"
)

// markerRe matches a region marker in its raw spelling and in the spelling
// produced by escaping its underscores. Either spelling may appear in a
// document depending on which pass last touched it.
var markerRe = func() *regexp.Regexp {
	u := `(?:_|\\_)`
	return regexp.MustCompile(u + u + u + `PROTECTED` + u + `([A-Z0-9]+)` + u + `(\d+)` + u + `PROTECTED` + u + u + u)
}()

type region struct {
	kind    string
	payload string
	display bool
}

// regions is an ordered list of spans lifted out of a document so that the
// lossy passes in between cannot see them. Each span is replaced by a marker
// carrying its kind and index; restore puts rendered spans back.
type regions struct {
	spans []region
}

// protect records payload and returns the marker that stands in for it.
func (r *regions) protect(kind, payload string, display bool) string {
	r.spans = append(r.spans, region{kind: kind, payload: payload, display: display})
	return "___PROTECTED_" + kind + "_" + strconv.Itoa(len(r.spans)-1) + "_PROTECTED___"
}

// restore replaces markers of the given kinds with render's output. Markers
// of other kinds, and marker-shaped text that was never issued, are kept.
func (r *regions) restore(s string, render func(region) string, kinds ...string) string {
	locs := markerRe.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range locs {
		kind := s[loc[2]:loc[3]]
		idx, err := strconv.Atoi(s[loc[4]:loc[5]])
		if err != nil || idx >= len(r.spans) || r.spans[idx].kind != kind || !contains(kinds, kind) {
			continue
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(render(r.spans[idx]))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// inline marks the math regions referenced in s as inline. Headings and
// list items are single lines, so display math inside them renders inline.
func (r *regions) inline(s string) {
	for _, m := range markerRe.FindAllStringSubmatch(s, -1) {
		idx, err := strconv.Atoi(m[2])
		if err != nil || idx >= len(r.spans) || r.spans[idx].kind != kindMath {
			continue
		}
		r.spans[idx].display = false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// escaper escapes markup metacharacters. Backslash is listed first so
// escapes it introduces are not themselves escaped; strings.Replacer makes
// a single pass in any case.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`#`, `\#`,
	`$`, `\$`,
	`*`, `\*`,
	`_`, `\_`,
	`@`, `\@`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
)

// Escape escapes Typst markup metacharacters in s. Region markers are
// copied through unchanged in either spelling.
func Escape(s string) string {
	locs := markerRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return escaper.Replace(s)
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	last := 0
	for _, loc := range locs {
		b.WriteString(escaper.Replace(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(escaper.Replace(s[last:]))
	return b.String()
}
