package docparse

import "strings"

// artifactReplacer strips conversion artifacts the backend is known to leave
// behind: literal backslash-u0000 placeholder sequences, real NUL bytes,
// replacement-character glyphs, and stray carriage returns.
var artifactReplacer = strings.NewReplacer(
	"\\u0000", "",
	"\x00", "",
	"�", "",
	"\r", "",
)

// Normalize cleans raw converter output:
// - Strip null-placeholder artifacts, replacement characters, and CRs
// - Trim whitespace from each line
// - Drop lines that become empty
// It is a pure function and idempotent. Artifacts are stripped before the
// blank-line pass so a line holding nothing but artifacts is dropped rather
// than surviving as an empty line.
func Normalize(raw string) string {
	raw = artifactReplacer.Replace(raw)

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
