package htmltomarkdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

// heading is an ATX heading found in a Markdown document.
type heading struct {
	Level  int
	Title  string
	Anchor string
}

// headings returns the document's ATX headings in order, skipping fenced
// code. Anchors follow GitHub's scheme and are unique within the document.
func headings(markdown string) []heading {
	var out []heading
	seen := make(map[string]int)
	eachLine(markdown, func(line string, fenced bool) string {
		if fenced {
			return line
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			return line
		}
		title := strings.TrimSpace(m[2])
		base := anchor(title)
		a := base
		if n, ok := seen[base]; ok {
			a = base + "-" + strconv.Itoa(n)
			seen[base]++
		} else {
			seen[base] = 1
		}
		out = append(out, heading{Level: len(m[1]), Title: title, Anchor: a})
		return line
	})
	return out
}

// demote shifts every heading outside fenced code down by n levels,
// capping at level 6.
func demote(markdown string, n int) string {
	return eachLine(markdown, func(line string, fenced bool) string {
		if fenced {
			return line
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			return line
		}
		level := min(len(m[1])+n, 6)
		return strings.Repeat("#", level) + " " + strings.TrimSpace(m[2])
	})
}

// eachLine calls fn for every line of s and joins the results. fenced
// reports whether the line is inside (or delimits) a ``` or ~~~ block.
func eachLine(s string, fn func(line string, fenced bool) string) string {
	lines := strings.Split(s, "\n")
	var fence string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence == "" {
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				fence = trimmed[:3]
				lines[i] = fn(line, true)
				continue
			}
			lines[i] = fn(line, false)
			continue
		}
		if strings.HasPrefix(trimmed, fence) {
			fence = ""
		}
		lines[i] = fn(line, true)
	}
	return strings.Join(lines, "\n")
}

// anchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func anchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
