package coursenotes

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	displayDollarRe  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	displayBracketRe = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)
	inlineParenRe    = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)
	mathTagRe        = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)
)

// MathSpan is a LaTeX math span found in page text.
type MathSpan struct {
	Source  string // span as written, delimiters included
	Expr    string // content between the delimiters
	Display bool
}

// ReplaceMath replaces every math span in s with the result of fn.
// Spans are found in order $$...$$, \[...\], \(...\) and then $...$ on a
// single line. Spans with blank content are left alone. A $...$ candidate
// is treated as currency and left alone when its content is only digits
// and separators, is padded with whitespace, contains a tag, or when the
// closing $ is directly followed by a digit. fn must not return text
// containing math delimiters.
func ReplaceMath(s string, fn func(MathSpan) string) string {
	s = replaceDelimited(s, displayDollarRe, true, fn)
	s = replaceDelimited(s, displayBracketRe, true, fn)
	s = replaceDelimited(s, inlineParenRe, false, fn)
	return replaceInlineDollars(s, fn)
}

func replaceDelimited(s string, re *regexp.Regexp, display bool, fn func(MathSpan) string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		expr := re.FindStringSubmatch(m)[1]
		if strings.TrimSpace(expr) == "" {
			return m
		}
		return fn(MathSpan{Source: m, Expr: expr, Display: display})
	})
}

func replaceInlineDollars(s string, fn func(MathSpan) string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '$':
		default:
			i++
			continue
		}

		end := closingDollar(s, i+1)
		if end < 0 {
			i++
			continue
		}
		expr := s[i+1 : end]
		if !looksLikeMath(expr) || mathTagRe.MatchString(expr) || (end+1 < len(s) && isDigit(s[end+1])) {
			// The closing $ may open the next span.
			i = end
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(fn(MathSpan{Source: s[i : end+1], Expr: expr}))
		i = end + 1
		last = i
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// closingDollar returns the index of the next unescaped $ on the current
// line, or -1.
func closingDollar(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '\n':
			return -1
		case '$':
			return j
		}
	}
	return -1
}

func looksLikeMath(expr string) bool {
	if expr == "" || expr != strings.TrimSpace(expr) {
		return false
	}
	for _, c := range expr {
		if !unicode.IsDigit(c) && c != '.' && c != ',' {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
