package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corentings/repertoire"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		moves []string
		want  string
	}{
		{nil, ""},
		{[]string{"e4"}, "1. e4"},
		{[]string{"e4", "e5", "Nf3"}, "1. e4 e5 2. Nf3"},
	}
	for _, tt := range tests {
		if got := formatLine(tt.moves); got != tt.want {
			t.Fatalf("expected %q but got %q", tt.want, got)
		}
	}
}

func TestPrintLines(t *testing.T) {
	mt := repertoire.NewMoveTree()
	if err := mt.AddText("1. e4 e5 (1... c5) 2. Nf3"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printLines(&buf, mt)
	want := "  1  1. e4 e5 2. Nf3\n  2  1. e4 c5\n"
	if buf.String() != want {
		t.Fatalf("expected %q but got %q", want, buf.String())
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer func() {
		corpusArgs = nil
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckEmbeddedCorpus(t *testing.T) {
	out, err := runCLI(t, "check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ok: 3 lines") {
		t.Fatalf("expected a summary but got %q", out)
	}
	if _, err := os.Stat("repertoire.log"); err != nil {
		t.Fatalf("expected the log file to be created: %s", err)
	}
}

func TestCheckRejectsIllegalCorpus(t *testing.T) {
	bad, err := filepath.Abs("../../fixtures/pgns/illegal.pgn")
	if err != nil {
		t.Fatal(err)
	}
	_, err = runCLI(t, "check", "--corpus", bad)
	if err == nil || !strings.Contains(err.Error(), "Ke3") {
		t.Fatalf("expected the illegal move to be reported but got %v", err)
	}
}

func TestLinesCommand(t *testing.T) {
	out, err := runCLI(t, "lines")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Fatalf("expected 3 lines but got %d: %q", n, out)
	}
	if !strings.HasPrefix(out, "  1  1. e4 e5 2. Nf3 Nf6") {
		t.Fatalf("unexpected listing %q", out)
	}
}
