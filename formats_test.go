package docparse

import "testing"

func TestIsSupportedType(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".pdf", true},
		{"pdf", true},
		{".PDF", true},
		{"DOCX", true},
		{".doc", true},
		{".xls", true},
		{".xlsx", true},
		{".ppt", true},
		{".pptx", true},
		{".txt", false},
		{".html", false},
		{".md", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := IsSupportedType(tt.ext); got != tt.want {
				t.Errorf("IsSupportedType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 4 {
		t.Fatalf("SupportedFormats() returned %d formats, want 4", len(formats))
	}

	exts := SupportedExtensions()
	if len(exts) != 7 {
		t.Fatalf("SupportedExtensions() returned %d extensions, want 7", len(exts))
	}
	for _, ext := range exts {
		if !IsSupportedType(ext) {
			t.Errorf("extension %q from listing not accepted by IsSupportedType", ext)
		}
	}

	// The listing is a copy; mutating it must not affect later calls.
	formats[0].Format = "mutated"
	if again := SupportedFormats(); again[0].Format != "PDF" {
		t.Error("SupportedFormats() exposes shared state")
	}
}
