// Package goquery provides the HTML sanitizer. Element removal runs as a
// streaming pass over the x/net/html tokenizer; phrase, image, heading and
// paragraph filtering run on a single goquery DOM that is serialized once.
package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/coursenotes"
)

// Ensure Sanitizer implements coursenotes.Sanitizer at compile time.
var _ coursenotes.Sanitizer = (*Sanitizer)(nil)

// DefaultPhrases mark third-party reader embeds and prescribed-reading
// boilerplate. Matching is case-insensitive against a container's text and
// raw markup, so script-attribute signatures such as launchReader match too.
var DefaultPhrases = []string{
	"Sign in to Kortext",
	"Open book in new window",
	"You will only be able to access the book on Kortext",
	"kortext.com",
	"launchReader",
	"emailKortextSupport",
	"Prescribed Reading",
}

// DefaultContainerClasses are the wrapper classes inspected for phrases.
var DefaultContainerClasses = []string{
	"no-overflow",
	"box",
	"generalbox",
	"prescribed-reading",
}

const (
	// DefaultMaxContainerBytes keeps phrase matching from deleting whole-page
	// wrappers that happen to contain a phrase.
	DefaultMaxContainerBytes = 50000

	// DefaultMaxEmptyParagraphBytes bounds what counts as an empty paragraph.
	DefaultMaxEmptyParagraphBytes = 256
)

// Options holds the heuristics used by the sanitizer. The values were tuned
// against one upstream content source and are configuration, not law.
type Options struct {
	// Phrases whose presence marks a container as boilerplate.
	Phrases []string

	// ContainerClasses are the class names inspected for Phrases, in order.
	ContainerClasses []string

	// MaxContainerBytes is the largest container, by serialized size, that
	// phrase matching may remove.
	MaxContainerBytes int

	// MaxEmptyParagraphBytes is the largest paragraph, by serialized size,
	// that empty-paragraph removal may remove.
	MaxEmptyParagraphBytes int

	// Origin is the base URL of the upstream site. Absolute image URLs on
	// its host are treated like relative ones when appending a token.
	Origin string
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Phrases:                append([]string(nil), DefaultPhrases...),
		ContainerClasses:       append([]string(nil), DefaultContainerClasses...),
		MaxContainerBytes:      DefaultMaxContainerBytes,
		MaxEmptyParagraphBytes: DefaultMaxEmptyParagraphBytes,
	}
}

// Option configures a Sanitizer.
type Option func(*Options)

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// WithOrigin sets the upstream origin used for same-origin checks.
func WithOrigin(origin string) Option {
	return func(o *Options) {
		o.Origin = origin
	}
}

// WithPhrases replaces the phrase denylist.
func WithPhrases(phrases ...string) Option {
	return func(o *Options) {
		o.Phrases = phrases
	}
}

// WithContainerClasses replaces the inspected container classes.
func WithContainerClasses(classes ...string) Option {
	return func(o *Options) {
		o.ContainerClasses = classes
	}
}

// WithMaxContainerBytes sets the container size guard.
func WithMaxContainerBytes(n int) Option {
	return func(o *Options) {
		o.MaxContainerBytes = n
	}
}

// Sanitizer cleans raw LMS HTML for display. It holds no mutable state
// and is safe for concurrent use.
type Sanitizer struct {
	opts       Options
	phrases    []string // lowercased
	originHost string
}

// NewSanitizer creates a new Sanitizer with DefaultOptions and any overrides.
func NewSanitizer(opts ...Option) *Sanitizer {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Sanitizer{opts: o}
	for _, p := range o.Phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			s.phrases = append(s.phrases, p)
		}
	}
	if o.Origin != "" {
		if u, err := url.Parse(o.Origin); err == nil {
			s.originHost = strings.ToLower(u.Hostname())
		}
	}
	return s
}

// Sanitize runs the cleaning stages in order. It never fails: a stage that
// cannot process its input is skipped and recorded in the result.
func (s *Sanitizer) Sanitize(html, token string) *coursenotes.SanitizeResult {
	result := &coursenotes.SanitizeResult{
		InputBytes: len(html),
		Removed:    make(map[string]int),
	}
	if html == "" {
		return result
	}

	out := html

	removed := make(map[string]int)
	if err := guard(func() (err error) {
		out, err = removeElements(html, removed)
		return err
	}); err != nil {
		out = html
		skip(result, coursenotes.StageStream, err)
	} else {
		for reason, n := range removed {
			result.Removed[reason] += n
		}
	}

	out = s.transform(out, token, result)

	normalized := out
	if err := guard(func() (err error) {
		normalized, err = normalizeEntities(out)
		return err
	}); err != nil {
		skip(result, coursenotes.StageEntities, err)
	} else {
		out = normalized
	}

	result.HTML = out
	return result
}

type domStage struct {
	name string
	run  func(*goquery.Document, *coursenotes.SanitizeResult)
}

// transform parses the markup once, applies the DOM stages in order and
// serializes once. On a parse or render failure the input is returned.
func (s *Sanitizer) transform(src, token string, result *coursenotes.SanitizeResult) string {
	var doc *goquery.Document
	if err := guard(func() (err error) {
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(src))
		return err
	}); err != nil {
		skip(result, coursenotes.StageParse, err)
		return src
	}

	stages := []domStage{
		{coursenotes.StageContainers, s.removeContainers},
		{coursenotes.StageImages, s.removeImages},
		{coursenotes.StageHeadings, s.removeDuplicateHeadings},
		{coursenotes.StageParagraphs, s.removeEmptyParagraphs},
	}
	if token != "" {
		stages = append(stages, domStage{coursenotes.StageTokenURLs, func(doc *goquery.Document, _ *coursenotes.SanitizeResult) {
			s.appendImageTokens(doc, token)
		}})
	}

	// DOM stages only detach nodes or set attributes, so a stage that stops
	// part way still leaves a well-formed tree for the next one.
	for _, stage := range stages {
		if err := guard(func() error {
			stage.run(doc, result)
			return nil
		}); err != nil {
			skip(result, stage.name, err)
		}
	}

	var out string
	if err := guard(func() (err error) {
		out, err = render(doc, src)
		return err
	}); err != nil {
		skip(result, coursenotes.StageRender, err)
		return src
	}
	return out
}

// documentRe detects input that is a full document rather than a fragment.
var documentRe = regexp.MustCompile(`(?i)<(?:!doctype|html|body)[\s>]`)

// render serializes the document. Fragments come back as fragments.
func render(doc *goquery.Document, src string) (string, error) {
	if documentRe.MatchString(src) {
		return doc.Html()
	}
	return doc.Find("body").Html()
}

// guard runs fn, converting a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func skip(result *coursenotes.SanitizeResult, stage string, err error) {
	result.Skipped = append(result.Skipped, coursenotes.StageError{Stage: stage, Err: err})
}
