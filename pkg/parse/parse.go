// Package parse converts one act's normalized text into the nested
// norma.Act tree, and collapses duplicate acts emitted by segmentation.
//
// The parser is a line-scan state machine. Marker rules run in fixed
// precedence (title, chapter, article, paragraph, inciso, alínea, item)
// and each match resets every pointer deeper than the matched level.
// Lines matching no rule continue the text of the deepest open node.
package parse

import (
	"regexp"
	"strings"

	"github.com/Joaovcitor/autografo/pkg/heading"
	"github.com/Joaovcitor/autografo/pkg/norma"
	"github.com/Joaovcitor/autografo/pkg/normalize"
)

// Parser holds the compiled structural marker patterns. It carries no
// per-parse state and is safe for concurrent use.
type Parser struct {
	chapterPattern    *regexp.Regexp
	articlePattern    *regexp.Regexp
	paragraphPattern  *regexp.Regexp
	soleParPattern    *regexp.Regexp
	subsectionPattern *regexp.Regexp
	clausePattern     *regexp.Regexp
	itemPattern       *regexp.Regexp
}

// NewParser creates a Parser with all marker patterns compiled.
func NewParser() *Parser {
	return &Parser{
		chapterPattern:    regexp.MustCompile(`(?i)^cap[ií]tulo\s+([IVXLCDM]+|\d+)\s*[-–—.:]?\s*(.*)$`),
		articlePattern:    regexp.MustCompile(`(?i)^art(?:igo)?\s*\.?\s*(\d+º?(?:-[A-Za-z])?)\s*[-–—.:]?\s*(.*)$`),
		paragraphPattern:  regexp.MustCompile(`^§\s*(\d+º?)\s*[-–—.:]?\s*(.*)$`),
		soleParPattern:    regexp.MustCompile(`(?i)^par[áa]grafo\s+[úu]nico\s*[-–—.:]?\s*(.*)$`),
		subsectionPattern: regexp.MustCompile(`^([IVXLCDM]+)\s*[-–—.)]\s*(.*)$`),
		clausePattern:     regexp.MustCompile(`^([a-z])\s*[).\-–—]\s*(.*)$`),
		itemPattern:       regexp.MustCompile(`^(\d+)\s*[).\-–—]\s*(.*)$`),
	}
}

// state holds the currently open node at each level of the hierarchy.
// A marker at level N clears every pointer deeper than N.
type state struct {
	chapter    *norma.Chapter
	article    *norma.Article
	paragraph  *norma.Paragraph
	subsection *norma.Subsection
	clause     *norma.Clause
}

// ParseAct scans one act's normalized text and builds its tree. It
// never fails: a text with no recognizable structure yields an Act with
// an empty article list and the input preserved as FullText, titled
// after sourceID.
func (p *Parser) ParseAct(text, sourceID string) *norma.Act {
	act := &norma.Act{
		Type:     norma.ActTypeOrdinary,
		FullText: text,
		Articles: []*norma.Article{},
	}
	var st state
	var summary []string
	titled := false
	formal := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Title capture runs on every line until a formal title is
		// found, even past a chapter or article heading that survives
		// above it. A formal title replaces a provisional autógrafo
		// title only before structural content begins; after that, a
		// title-shaped line is body text.
		if !formal && (!titled || (st.chapter == nil && st.article == nil)) {
			if h, ok := heading.Match(line); ok {
				act.Title = h.Title
				act.Number = h.Number
				act.Type = h.Type
				if d, ok := heading.ExtractDate(line); ok {
					act.Date = d
				}
				titled = true
				formal = true
				continue
			}
		}
		if !titled {
			if h, ok := heading.MatchAutografo(line); ok {
				act.Title = h.Title
				act.Number = h.Number
				act.Type = h.Type
				titled = true
				continue
			}
		}

		if m := p.chapterPattern.FindStringSubmatch(line); m != nil {
			p.openChapter(act, &st, m[1], strings.TrimSpace(m[2]))
			continue
		}
		if m := p.articlePattern.FindStringSubmatch(line); m != nil {
			p.openArticle(act, &st, m[1], strings.TrimSpace(m[2]))
			continue
		}
		if st.article != nil {
			if m := p.paragraphPattern.FindStringSubmatch(line); m != nil {
				p.openParagraph(&st, "§"+m[1], strings.TrimSpace(m[2]))
				continue
			}
			if m := p.soleParPattern.FindStringSubmatch(line); m != nil {
				p.openParagraph(&st, "Parágrafo único", strings.TrimSpace(m[1]))
				continue
			}
			if m := p.subsectionPattern.FindStringSubmatch(line); m != nil {
				p.openSubsection(&st, m[1], strings.TrimSpace(m[2]))
				continue
			}
		}
		if st.subsection != nil {
			if m := p.clausePattern.FindStringSubmatch(line); m != nil {
				p.openClause(&st, m[1], strings.TrimSpace(m[2]))
				continue
			}
		}
		if st.clause != nil {
			if m := p.itemPattern.FindStringSubmatch(line); m != nil {
				item := &norma.Item{
					Label: m[1],
					Text:  strings.TrimSpace(m[2]),
					Seq:   len(st.clause.Items) + 1,
				}
				st.clause.Items = append(st.clause.Items, item)
				continue
			}
		}

		// Continuation: the deepest open node accumulates the line;
		// with nothing open it belongs to the summary (ementa).
		switch {
		case st.clause != nil:
			st.clause.Text = joinText(st.clause.Text, line)
		case st.subsection != nil:
			st.subsection.Text = joinText(st.subsection.Text, line)
		case st.paragraph != nil:
			st.paragraph.Text = joinText(st.paragraph.Text, line)
		case st.article != nil:
			st.article.Text = joinText(st.article.Text, line)
		default:
			summary = append(summary, line)
		}
	}

	act.Summary = strings.Join(summary, " ")
	if !titled {
		act.Title = sourceID
		act.Number = norma.NumberNotIdentified
	}
	return act
}

// openChapter opens a chapter, reusing an existing one when the same
// heading repeats across a page boundary.
func (p *Parser) openChapter(act *norma.Act, st *state, label, name string) {
	upper := strings.ToUpper(name)
	var chapter *norma.Chapter
	for _, c := range act.Chapters {
		if c.Label == label && strings.ToUpper(c.Name) == upper {
			chapter = c
			break
		}
	}
	if chapter == nil {
		chapter = &norma.Chapter{
			Label: label,
			Name:  name,
			Seq:   len(act.Chapters) + 1,
		}
		act.Chapters = append(act.Chapters, chapter)
	}
	st.chapter = chapter
	st.article = nil
	st.paragraph = nil
	st.subsection = nil
	st.clause = nil
}

func (p *Parser) openArticle(act *norma.Act, st *state, label, text string) {
	article := &norma.Article{
		Label:   label,
		Text:    text,
		Seq:     len(act.Articles) + 1,
		Chapter: st.chapter,
	}
	act.Articles = append(act.Articles, article)
	st.article = article
	st.paragraph = nil
	st.subsection = nil
	st.clause = nil
}

func (p *Parser) openParagraph(st *state, label, text string) {
	paragraph := &norma.Paragraph{
		Label: label,
		Text:  text,
		Seq:   len(st.article.Paragraphs) + 1,
	}
	st.article.Paragraphs = append(st.article.Paragraphs, paragraph)
	st.paragraph = paragraph
	st.subsection = nil
	st.clause = nil
}

// openSubsection attaches the inciso to the open paragraph when one
// exists, otherwise directly to the article.
func (p *Parser) openSubsection(st *state, label, text string) {
	subsection := &norma.Subsection{Label: label, Text: text}
	if st.paragraph != nil {
		subsection.Seq = len(st.paragraph.Subsections) + 1
		st.paragraph.Subsections = append(st.paragraph.Subsections, subsection)
	} else {
		subsection.Seq = len(st.article.Subsections) + 1
		st.article.Subsections = append(st.article.Subsections, subsection)
	}
	st.subsection = subsection
	st.clause = nil
}

func (p *Parser) openClause(st *state, label, text string) {
	clause := &norma.Clause{
		Label: label,
		Text:  text,
		Seq:   len(st.subsection.Clauses) + 1,
	}
	st.subsection.Clauses = append(st.subsection.Clauses, clause)
	st.clause = clause
}

func joinText(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + " " + line
}

// Deduplicate removes acts that repeat an earlier act in the sequence;
// the first occurrence wins. Acts with a number are keyed by digits and
// date; acts without one by their folded, uppercased title. This is the
// safety net behind the segmenter's page-repetition heuristic.
func Deduplicate(acts []*norma.Act) []*norma.Act {
	seen := make(map[string]bool, len(acts))
	out := make([]*norma.Act, 0, len(acts))
	for _, act := range acts {
		key := dedupKey(act)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, act)
	}
	return out
}

func dedupKey(act *norma.Act) string {
	if digits := digitsOnly(act.Number); digits != "" {
		return digits + "|" + act.Date.String()
	}
	return "no-number|" + strings.ToUpper(normalize.Fold(act.Title))
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
