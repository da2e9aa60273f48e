package repertoire

import (
	"os"
	"testing"
)

type lexed struct {
	typ   TokenType
	value string
}

func tokensOf(input string) []lexed {
	var out []lexed
	for _, t := range Tokenize(input) {
		out = append(out, lexed{t.Type, t.Value})
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lexed
	}{
		{
			name:  "bare moves",
			input: "e4 e5 Nf3",
			want:  []lexed{{MOVE, "e4"}, {MOVE, "e5"}, {MOVE, "Nf3"}},
		},
		{
			name:  "move numbers are dropped",
			input: "1. e4 e5 2.Nf3 2... Nc6",
			want:  []lexed{{MOVE, "e4"}, {MOVE, "e5"}, {MOVE, "Nf3"}, {MOVE, "Nc6"}},
		},
		{
			name:  "variations",
			input: "1. e4 (1. d4 d5) 1... e5",
			want: []lexed{
				{MOVE, "e4"}, {VariationStart, "("}, {MOVE, "d4"}, {MOVE, "d5"},
				{VariationEnd, ")"}, {MOVE, "e5"},
			},
		},
		{
			name:  "move number without move",
			input: "1. (e4)",
			want:  []lexed{{MoveNumber, "1."}, {VariationStart, "("}, {MOVE, "e4"}, {VariationEnd, ")"}},
		},
		{
			name:  "check and mate suffixes",
			input: "Bxf2+ Bg4# Qh5++",
			want:  []lexed{{MOVE, "Bxf2+"}, {MOVE, "Bg4#"}, {MOVE, "Qh5++"}},
		},
		{
			name:  "pawn moves",
			input: "exd5 e8=Q bxa1N exd8=N+",
			want:  []lexed{{MOVE, "exd5"}, {MOVE, "e8=Q"}, {MOVE, "bxa1N"}, {MOVE, "exd8=N+"}},
		},
		{
			name:  "disambiguated piece moves",
			input: "Nbd7 R1e2 Qh4xe1 Raxb8",
			want:  []lexed{{MOVE, "Nbd7"}, {MOVE, "R1e2"}, {MOVE, "Qh4xe1"}, {MOVE, "Raxb8"}},
		},
		{
			name:  "castling and null moves",
			input: "O-O O-O-O+ 0-0 0-0-0 -- Z0",
			want: []lexed{
				{MOVE, "O-O"}, {MOVE, "O-O-O+"}, {MOVE, "0-0"}, {MOVE, "0-0-0"},
				{MOVE, "--"}, {MOVE, "Z0"},
			},
		},
		{
			name:  "annotations and NAGs",
			input: "e4! e5?! Nf3 $14",
			want: []lexed{
				{MOVE, "e4"}, {ANNOTATION, "!"}, {MOVE, "e5"}, {ANNOTATION, "?!"},
				{MOVE, "Nf3"}, {NAG, "$14"},
			},
		},
		{
			name:  "comments",
			input: "e4 {best by test} e5 ; a line comment\nNf3",
			want: []lexed{
				{MOVE, "e4"}, {COMMENT, "{best by test}"}, {MOVE, "e5"},
				{LineComment, "; a line comment"}, {MOVE, "Nf3"},
			},
		},
		{
			name:  "escape line at line start",
			input: "%evaluation 0.3\ne4",
			want:  []lexed{{ESCAPE, "%evaluation 0.3"}, {MOVE, "e4"}},
		},
		{
			name:  "tag pairs",
			input: "[Event \"Casual \\\"blitz\\\"\"]\n[Result \"1-0\"]\n1. e4",
			want: []lexed{
				{TagPair, "[Event \"Casual \\\"blitz\\\"\"]"}, {TagPair, "[Result \"1-0\"]"},
				{MOVE, "e4"},
			},
		},
		{
			name:  "results",
			input: "e4 1-0 0-1 1/2-1/2 *",
			want: []lexed{
				{MOVE, "e4"}, {RESULT, "1-0"}, {RESULT, "0-1"}, {RESULT, "1/2-1/2"}, {RESULT, "*"},
			},
		},
		{
			name:  "unrecognised input ends tokenization",
			input: "e4 e5 @@@ Nf3",
			want:  []lexed{{MOVE, "e4"}, {MOVE, "e5"}},
		},
		{
			name:  "unterminated comment ends tokenization",
			input: "e4 {never closed e5",
			want:  []lexed{{MOVE, "e4"}},
		},
		{
			name:  "empty input",
			input: "   \n\t",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokensOf(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens %v but got %d %v", len(tt.want), tt.want, len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: expected %v but got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestLexerOffsetsPointIntoSource(t *testing.T) {
	input := "1. e4 (1. d4) e5"
	for _, tok := range Tokenize(input) {
		if input[tok.Offset:tok.Offset+len(tok.Value)] != tok.Value {
			t.Fatalf("token %v does not match source at offset %d", tok, tok.Offset)
		}
	}
}

func TestLexerStaysExhausted(t *testing.T) {
	l := NewLexer("e4 ???? e5")
	if tok, ok := l.NextToken(); !ok || tok.Value != "e4" {
		t.Fatalf("expected e4 but got %v (%v)", tok, ok)
	}
	if tok, ok := l.NextToken(); !ok || tok.Type != ANNOTATION {
		t.Fatalf("expected annotation but got %v (%v)", tok, ok)
	}
	// the second "??", then e5
	for i := 0; i < 2; i++ {
		if _, ok := l.NextToken(); !ok {
			t.Fatalf("expected more tokens at step %d", i)
		}
	}
	if _, ok := l.NextToken(); ok {
		t.Fatal("expected end of input")
	}
	if tok, ok := l.NextToken(); ok || tok.Type != EOF {
		t.Fatalf("expected EOF to repeat but got %v", tok)
	}
}

func TestLexerRemaining(t *testing.T) {
	l := NewLexer("e4 <noise>")
	for _, ok := l.NextToken(); ok; _, ok = l.NextToken() {
	}
	if l.Remaining() != "<noise>" {
		t.Fatalf("expected remaining input %q but got %q", "<noise>", l.Remaining())
	}
}

func TestTokenizeFixture(t *testing.T) {
	raw, err := os.ReadFile("fixtures/pgns/stafford.pgn")
	if err != nil {
		t.Fatal(err)
	}
	var moves, tags int
	for _, tok := range Tokenize(string(raw)) {
		switch tok.Type {
		case MOVE:
			moves++
		case TagPair:
			tags++
		}
	}
	if tags != 5 {
		t.Fatalf("expected 5 tag pairs but got %d", tags)
	}
	if moves != 33 {
		t.Fatalf("expected 33 moves but got %d", moves)
	}
}

func TestTokenTypeString(t *testing.T) {
	if MOVE.String() != "MOVE" || TagPair.String() != "TAG_PAIR" {
		t.Fatalf("unexpected names %s %s", MOVE, TagPair)
	}
	if TokenType(99).String() != "UNKNOWN" {
		t.Fatal("expected UNKNOWN for out of range type")
	}
}
