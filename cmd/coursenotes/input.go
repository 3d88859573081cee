package main

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(deps *Dependencies, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(deps.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// readLines returns the non-blank, non-comment lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
