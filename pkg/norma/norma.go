// Package norma defines the hierarchical document model for Brazilian
// statutory texts: Act → Chapter → Article → Paragraph → Subsection
// (inciso) → Clause (alínea) → Item.
//
// All sequence indices are 1-based and reflect document order within the
// parent's child list, not the numeric value of the ordinal label. A
// damaged source may carry out-of-order labels; sequence order is
// authoritative for storage and rendering, the label is display-only.
package norma

import "fmt"

// ActType categorizes the legal instrument an Act represents.
type ActType string

const (
	// ActTypeOrdinary covers ordinary laws, decrees, provisional
	// measures, and constitutional amendments.
	ActTypeOrdinary ActType = "ordinary"

	// ActTypeComplementary marks a lei complementar, tracked separately
	// because its number carries an "LC" prefix.
	ActTypeComplementary ActType = "complementary"

	// ActTypeResolution marks a resolução of the legislative chamber.
	ActTypeResolution ActType = "resolution"
)

// NumberNotIdentified is the sentinel stored when a title line matched
// but no number could be extracted from it.
const NumberNotIdentified = "Número não identificado"

// Date is a calendar date taken from the enactment clause of a title
// line. The zero value means no date was found.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IsZero reports whether no date was extracted.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// String renders the date as YYYY-MM-DD, or "" for the zero value.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Act is a single law, decree, or resolution produced by one parse.
type Act struct {
	Title    string     `json:"title"`
	Number   string     `json:"number"`
	Type     ActType    `json:"type"`
	Date     Date       `json:"date"`
	Summary  string     `json:"summary,omitempty"`
	FullText string     `json:"full_text"`
	Chapters []*Chapter `json:"chapters,omitempty"`
	Articles []*Article `json:"articles"`
}

// Chapter is a capítulo heading. The same heading repeated across page
// boundaries does not create two chapters; the parser reuses the
// existing one.
type Chapter struct {
	Label string `json:"label,omitempty"`
	Name  string `json:"name,omitempty"`
	Seq   int    `json:"seq"`
}

// Article is an artigo. Subsections attach directly to the article when
// no paragraph is open at the time they appear.
type Article struct {
	Label       string        `json:"label"`
	Text        string        `json:"text"`
	Seq         int           `json:"seq"`
	Chapter     *Chapter      `json:"-"`
	Paragraphs  []*Paragraph  `json:"paragraphs,omitempty"`
	Subsections []*Subsection `json:"subsections,omitempty"`
}

// Paragraph is a parágrafo ("§1º" or "Parágrafo único").
type Paragraph struct {
	Label       string        `json:"label"`
	Text        string        `json:"text"`
	Seq         int           `json:"seq"`
	Subsections []*Subsection `json:"subsections,omitempty"`
}

// Subsection is an inciso, labeled with a roman numeral.
type Subsection struct {
	Label   string    `json:"label"`
	Text    string    `json:"text"`
	Seq     int       `json:"seq"`
	Clauses []*Clause `json:"clauses,omitempty"`
}

// Clause is an alínea, labeled with a lowercase letter.
type Clause struct {
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Seq   int     `json:"seq"`
	Items []*Item `json:"items,omitempty"`
}

// Item is the deepest subdivision, labeled with an integer. No children.
type Item struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Seq   int    `json:"seq"`
}

// Statistics holds per-level node counts for one Act.
type Statistics struct {
	Chapters    int `json:"chapters"`
	Articles    int `json:"articles"`
	Paragraphs  int `json:"paragraphs"`
	Subsections int `json:"subsections"`
	Clauses     int `json:"clauses"`
	Items       int `json:"items"`
}

// Statistics walks the tree and counts nodes at each level.
func (a *Act) Statistics() Statistics {
	stats := Statistics{
		Chapters: len(a.Chapters),
		Articles: len(a.Articles),
	}
	countSubsections := func(subs []*Subsection) {
		stats.Subsections += len(subs)
		for _, sub := range subs {
			stats.Clauses += len(sub.Clauses)
			for _, clause := range sub.Clauses {
				stats.Items += len(clause.Items)
			}
		}
	}
	for _, art := range a.Articles {
		stats.Paragraphs += len(art.Paragraphs)
		countSubsections(art.Subsections)
		for _, par := range art.Paragraphs {
			countSubsections(par.Subsections)
		}
	}
	return stats
}
