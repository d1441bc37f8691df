package prompt

import (
	"strings"
	"testing"
)

var testImage = []byte{0xff, 0xd8, 0xff, 0xe0}

func TestBuild_EmptyNotesOmitsContext(t *testing.T) {
	parts := Build("", "image/jpeg", testImage)

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts (instruction, image), got %d", len(parts))
	}
	if parts[0].Text != AnalysisInstruction {
		t.Error("first part must be the fixed instruction template")
	}
	if !parts[1].IsImage() {
		t.Error("last part must be the image")
	}
}

func TestBuild_WhitespaceNotesOmitsContext(t *testing.T) {
	parts := Build("   \n\t  ", "image/jpeg", testImage)

	if len(parts) != 2 {
		t.Fatalf("whitespace-only notes must not add a context segment, got %d parts", len(parts))
	}
}

func TestBuild_NotesIncludedVerbatim(t *testing.T) {
	notes := "Found near Knossos.\nPossible Minoan origin."
	parts := Build(notes, "image/jpeg", testImage)

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts (instruction, context, image), got %d", len(parts))
	}
	if !strings.Contains(parts[1].Text, "Additional Context from User:") {
		t.Error("context segment missing its label")
	}
	if !strings.Contains(parts[1].Text, notes) {
		t.Error("note text must be passed through verbatim")
	}
}

func TestBuild_Order(t *testing.T) {
	parts := Build("some notes", "image/png", testImage)

	if parts[0].IsImage() || parts[1].IsImage() {
		t.Error("text parts must precede the image")
	}
	last := parts[len(parts)-1]
	if !last.IsImage() {
		t.Fatal("image must be the final part")
	}
	if last.MIMEType != "image/png" {
		t.Errorf("expected image/png, got %s", last.MIMEType)
	}
}
