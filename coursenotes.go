// Package coursenotes turns HTML fetched from a learning-management system
// into display-ready HTML and typeset-ready Typst documents. It strips
// tracking widgets, reader embeds, duplicated navigation and duplicated
// headings, then converts the cleaned HTML into Typst markup while
// protecting math and headings from lossy text passes.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, htmltomarkdown/).
package coursenotes
