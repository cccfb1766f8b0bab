package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Joaovcitor/autografo/pkg/norma"
)

const batchExport = "AUTÓGRAFO DE LEI Nº 10\n" +
	"LEI Nº 10, DE 5 DE ABRIL DE 2023\n" +
	"Dispõe sobre o transporte escolar.\n" +
	"Art. 1º Fica instituído o programa.\n" +
	"AUTÓGRAFO DE LEI Nº 10\n" + // page two of the same act
	"Art. 2º As despesas correrão por conta do orçamento.\n" +
	"AUTÓGRAFO DE LEI Nº 11\n" +
	"LEI Nº 11, DE 5 DE ABRIL DE 2023\n" +
	"Denomina via pública.\n" +
	"Art. 1º Fica denominada Rua das Flores.\n"

func TestParseDocumentBatch(t *testing.T) {
	acts := ParseDocument(batchExport, "autografos.txt")
	if len(acts) != 2 {
		t.Fatalf("got %d acts, want 2", len(acts))
	}

	first := acts[0]
	if first.Number != "10" {
		t.Errorf("first act number = %q, want %q", first.Number, "10")
	}
	if first.Title != "Lei nº 10, de 5 de abril de 2023" {
		t.Errorf("first act title = %q", first.Title)
	}
	if len(first.Articles) != 2 {
		t.Errorf("first act has %d articles, want 2 (page split must not lose Art. 2º)", len(first.Articles))
	}
	if got := first.Date.String(); got != "2023-04-05" {
		t.Errorf("first act date = %q", got)
	}

	second := acts[1]
	if second.Number != "11" {
		t.Errorf("second act number = %q, want %q", second.Number, "11")
	}
	if !strings.Contains(second.Summary, "Denomina via pública") {
		t.Errorf("second act summary = %q", second.Summary)
	}
}

func TestParseDocumentDeduplicates(t *testing.T) {
	// The same act repeated wholesale, as when a clerk exports
	// overlapping page ranges. Differently mangled headers defeat the
	// segmenter's page heuristic; deduplication is the safety net.
	text := "AUTÓGRAFO DE LEI Nº 7\n" +
		"LEI Nº 7, DE 1 DE JUNHO DE 2022\n" +
		"Dispõe sobre feiras livres.\n" +
		"Art. 1º Texto.\n" +
		"AUTÓGRAFO DE LEI Nº 1\n" + // OCR misread the 7; the segmenter opens a bogus second block
		"LEI Nº 7, DE 1 DE JUNHO DE 2022\n" +
		"Dispõe sobre feiras livres.\n" +
		"Art. 1º Texto.\n"
	acts := ParseDocument(text, "batch.txt")
	if len(acts) != 1 {
		t.Fatalf("got %d acts, want 1", len(acts))
	}
}

func TestParseDocumentEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\r\n"} {
		if acts := ParseDocument(input, "vazio.txt"); len(acts) != 0 {
			t.Errorf("ParseDocument(%q) returned %d acts, want 0", input, len(acts))
		}
	}
}

func TestParseDocumentDegenerate(t *testing.T) {
	acts := ParseDocument("texto sem estrutura alguma", "upload.txt")
	if len(acts) != 1 {
		t.Fatalf("got %d acts, want 1", len(acts))
	}
	act := acts[0]
	if len(act.Articles) != 0 {
		t.Errorf("degenerate act has %d articles, want 0", len(act.Articles))
	}
	if act.Title != "upload.txt" {
		t.Errorf("Title = %q, want the source identifier", act.Title)
	}
	if act.FullText != "texto sem estrutura alguma" {
		t.Errorf("FullText = %q", act.FullText)
	}
}

func TestParseDocumentCustomHeaderTemplate(t *testing.T) {
	text := "EXPEDIENTE nº 1\n" +
		"LEI nº 31, DE 1 DE MARÇO DE 2024\n" +
		"Ementa um.\n" +
		"Art. 1º Um.\n" +
		"EXPEDIENTE nº 2\n" +
		"LEI nº 32, DE 1 DE MARÇO DE 2024\n" +
		"Ementa dois.\n" +
		"Art. 1º Dois.\n"
	acts := ParseDocument(text, "expedientes.txt",
		WithHeaderTemplate(`(?i)^EXPEDIENTE\s+nº\s*(\d+)`))
	if len(acts) != 2 {
		t.Fatalf("got %d acts, want 2", len(acts))
	}
}

func TestParseSingleAct(t *testing.T) {
	act := ParseSingleAct("LEI Nº 9, DE 1 DE MAIO DE 2021\nEmenta.\nArt. 1º Texto.", "lei9.txt")
	if act == nil {
		t.Fatal("ParseSingleAct returned nil for non-empty input")
	}
	if act.Number != "9" {
		t.Errorf("Number = %q, want %q", act.Number, "9")
	}
	if len(act.Articles) != 1 {
		t.Errorf("got %d articles, want 1", len(act.Articles))
	}

	if act := ParseSingleAct("   \n  ", "vazio.txt"); act != nil {
		t.Errorf("ParseSingleAct on blank input = %+v, want nil", act)
	}
}

type stubSource struct {
	id   string
	text string
	err  error
}

func (s stubSource) Identifier() string { return s.id }

func (s stubSource) Text(ctx context.Context) (string, error) { return s.text, s.err }

func TestParseFrom(t *testing.T) {
	acts, err := ParseFrom(context.Background(), stubSource{id: "fonte.txt", text: batchExport})
	if err != nil {
		t.Fatalf("ParseFrom: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("got %d acts, want 2", len(acts))
	}

	wantErr := errors.New("fetch failed")
	if _, err := ParseFrom(context.Background(), stubSource{id: "x", err: wantErr}); !errors.Is(err, wantErr) {
		t.Errorf("ParseFrom error = %v, want wrapped %v", err, wantErr)
	}
}

var _ Sink = nopSink{}

type nopSink struct{}

func (nopSink) StoreActs(ctx context.Context, acts []*norma.Act) error { return nil }
