// Package heading identifies the title line of a Brazilian statutory
// act: its type, number, and enactment date.
//
// Title templates are evaluated in fixed rank order because broader
// titles are substrings of more specific ones ("Lei" matches inside
// "Lei Complementar"). The ranked list is data, not an if/else chain,
// so the precedence cannot silently drift.
package heading

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Joaovcitor/autografo/pkg/norma"
	"github.com/Joaovcitor/autografo/pkg/normalize"
)

// Heading is the identifying information extracted from a title line.
type Heading struct {
	Title  string        `json:"title"`
	Number string        `json:"number"`
	Type   norma.ActType `json:"type"`
}

// matcher pairs one title template with the act type and number prefix
// it implies. Patterns run against the accent-folded line.
type matcher struct {
	pattern *regexp.Regexp
	actType norma.ActType
	prefix  string
}

// matchers is the ranked template list; first match wins.
var matchers = []matcher{
	{regexp.MustCompile(`(?i)^LEI\s+COMPLEMENTAR\b`), norma.ActTypeComplementary, "LC "},
	{regexp.MustCompile(`(?i)^RESOLUCAO\b`), norma.ActTypeResolution, "RES "},
	{regexp.MustCompile(`(?i)^DECRETO\s+LEGISLATIVO\b`), norma.ActTypeOrdinary, ""},
	{regexp.MustCompile(`(?i)^(PROJETO\s+DE\s+LEI\s+COMPLEMENTAR|PROJETO\s+DE\s+EMENDA\s+A\s+LEI\s+COMPLEMENTAR|EMENDA\s+A\s+LEI\s+COMPLEMENTAR)\b`), norma.ActTypeComplementary, "LC "},
	{regexp.MustCompile(`(?i)^(LEI|DECRETO|MEDIDA\s+PROVISORIA|EMENDA\s+CONSTITUCIONAL)\b`), norma.ActTypeOrdinary, ""},
}

var (
	numberPattern    = regexp.MustCompile(`(?i)nº\s*([\d][\d./-]*)`)
	autografoPattern = regexp.MustCompile(`(?i)^AUTOGRAFOS?\s+DE\s+LEI(\s+COMPLEMENTAR)?\b`)
	datePattern      = regexp.MustCompile(`(?i)\bde\s+(\d{1,2})º?\s+de\s+([a-zA-Z]+)\s+de\s+(\d{4})`)
)

// months maps lowercase, accent-folded Portuguese month names to their
// number. An unknown name yields no date, never an error.
var months = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// Match scans one normalized line for a formal title. ok is false when
// the line is not a title line.
func Match(line string) (Heading, bool) {
	folded := normalize.Fold(strings.TrimSpace(line))
	for _, m := range matchers {
		if !m.pattern.MatchString(folded) {
			continue
		}
		return Heading{
			Title:  titleCase(line),
			Number: extractNumber(line, m.prefix),
			Type:   m.actType,
		}, true
	}
	return Heading{}, false
}

// MatchAutografo recognizes the batch-export header line used when a
// document carries no formal title line of its own.
func MatchAutografo(line string) (Heading, bool) {
	folded := normalize.Fold(strings.TrimSpace(line))
	m := autografoPattern.FindStringSubmatch(folded)
	if m == nil {
		return Heading{}, false
	}
	actType := norma.ActTypeOrdinary
	prefix := ""
	name := "Autógrafo de Lei"
	if m[1] != "" {
		actType = norma.ActTypeComplementary
		prefix = "LC "
		name = "Autógrafo de Lei Complementar"
	}
	h := Heading{Type: actType, Number: extractNumber(line, prefix)}
	if num := numberValue(line); num != "" {
		h.Title = fmt.Sprintf("%s nº %s", name, num)
	} else {
		h.Title = titleCase(line)
	}
	return h, true
}

// ExtractDate finds a "de <day> de <month> de <year>" clause in the
// line. ok is false when no clause is present or the month name is not
// recognized.
func ExtractDate(line string) (norma.Date, bool) {
	m := datePattern.FindStringSubmatch(normalize.Fold(line))
	if m == nil {
		return norma.Date{}, false
	}
	month, known := months[strings.ToLower(m[2])]
	if !known {
		return norma.Date{}, false
	}
	day := atoi(m[1])
	year := atoi(m[3])
	if day < 1 || day > 31 {
		return norma.Date{}, false
	}
	return norma.Date{Year: year, Month: month, Day: day}, true
}

// numberValue returns the bare number following the ordinal marker, or
// "" when none is present.
func numberValue(line string) string {
	m := numberPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], "./-")
}

// extractNumber builds the stored number field: prefix plus extracted
// number, or the sentinel when the title carries no number.
func extractNumber(line, prefix string) string {
	num := numberValue(line)
	if num == "" {
		return norma.NumberNotIdentified
	}
	return prefix + num
}

// titleCase renders a title line in display form: everything lowercase
// with the first letter capitalized ("LEI nº 8.080, DE ..." becomes
// "Lei nº 8.080, de ...").
func titleCase(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
