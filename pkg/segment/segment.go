// Package segment splits one normalized document into one text block
// per act. Municipal batch exports concatenate several autógrafos into
// a single file, and each act's page header repeats at page boundaries,
// so splitting must distinguish "new act" from "same act, next page".
package segment

import (
	"regexp"
	"strings"

	"github.com/Joaovcitor/autografo/pkg/heading"
	"github.com/Joaovcitor/autografo/pkg/normalize"
)

// DefaultHeaderTemplate recognizes the recurring autógrafo header line.
// It runs against the accent-folded form of each line.
const DefaultHeaderTemplate = `(?i)^AUTOGRAFOS?\s+DE\s+LEI(?:\s+COMPLEMENTAR)?\s+nº?\s*([\d][\d./-]*)`

// Strategy names the pass that produced the blocks, so callers and
// tests can target each splitting strategy independently.
type Strategy string

const (
	// StrategyHeader split on recurring autógrafo header lines.
	StrategyHeader Strategy = "header"

	// StrategyTitle split on recurring formal title lines; the
	// fallback for documents that only repeat the law title.
	StrategyTitle Strategy = "title"

	// StrategyNone found no recurring boundary; the document is a
	// single block.
	StrategyNone Strategy = "none"
)

// Result is the outcome of one split.
type Result struct {
	Blocks   []string
	Strategy Strategy
}

var defaultHeaderPattern = regexp.MustCompile(DefaultHeaderTemplate)

// Split divides normalized text into one block per act. headerTemplate
// overrides the default autógrafo recognizer; an invalid pattern
// silently falls back to the default, favoring availability over
// strictness.
func Split(text, headerTemplate string) Result {
	header := defaultHeaderPattern
	if headerTemplate != "" {
		if custom, err := regexp.Compile(headerTemplate); err == nil {
			header = custom
		}
	}

	lines := strings.Split(text, "\n")

	blocks, headerMatches := splitByHeader(lines, header)
	if countNonEmpty(blocks) > 1 {
		return Result{Blocks: nonEmpty(blocks), Strategy: StrategyHeader}
	}

	blocks, titleMatches := splitByTitle(lines)
	if countNonEmpty(blocks) > 1 {
		return Result{Blocks: nonEmpty(blocks), Strategy: StrategyTitle}
	}

	if strings.TrimSpace(text) == "" {
		return Result{Strategy: StrategyNone}
	}
	switch {
	case headerMatches > 0:
		return Result{Blocks: []string{text}, Strategy: StrategyHeader}
	case titleMatches > 0:
		return Result{Blocks: []string{text}, Strategy: StrategyTitle}
	}
	return Result{Blocks: []string{text}, Strategy: StrategyNone}
}

// splitByHeader accumulates lines into blocks delimited by header
// matches. A header whose embedded number equals the current block's is
// a page repetition and does not open a new block. Lines before the
// first header belong to the block that follows.
func splitByHeader(lines []string, header *regexp.Regexp) ([]string, int) {
	var blocks []string
	var current []string
	currentNum := ""
	started := false
	matches := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		m := header.FindStringSubmatch(normalize.Fold(trimmed))
		if m == nil {
			current = append(current, line)
			continue
		}
		matches++
		num := headerNumber(m)
		if !started {
			started = true
			currentNum = num
			current = append(current, line)
			continue
		}
		if num == currentNum {
			// Same act, next page.
			current = append(current, line)
			continue
		}
		blocks = append(blocks, strings.Join(current, "\n"))
		current = []string{line}
		currentNum = num
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks, matches
}

// splitByTitle closes the current block whenever a formal title line is
// seen after at least one earlier title match.
func splitByTitle(lines []string) ([]string, int) {
	var blocks []string
	var current []string
	matches := 0

	for _, line := range lines {
		if _, ok := heading.Match(strings.TrimSpace(line)); ok {
			matches++
			if matches > 1 {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = nil
			}
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks, matches
}

// headerNumber extracts the digits-only act number from a header match.
// Custom templates without a capture group fall back to the digits of
// the whole match.
func headerNumber(m []string) string {
	if len(m) > 1 && m[1] != "" {
		return digitsOnly(m[1])
	}
	return digitsOnly(m[0])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func countNonEmpty(blocks []string) int {
	n := 0
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			n++
		}
	}
	return n
}

func nonEmpty(blocks []string) []string {
	out := blocks[:0:0]
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return out
}
