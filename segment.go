// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the segmentation bound used when no explicit size
// is configured.
const DefaultMaxChunkSize = 3000

// Segment splits text into an ordered sequence of bounded-size chunks.
//
// If any line begins with a level-1 heading marker ("# "), heading mode is
// used: each heading starts a new chunk, so one chunk covers one top-level
// section regardless of size. Otherwise size mode accumulates lines up to
// maxChunkSize characters, closing chunks at the latest sentence-ending
// period or newline available.
//
// Segment is deterministic and pure. Empty or whitespace-only chunks are
// discarded; empty input yields no chunks.
func Segment(text string, maxChunkSize int) []string {
	if text == "" {
		return nil
	}
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	lines := strings.Split(text, "\n")

	var chunks []string
	if hasLevel1Heading(lines) {
		chunks = segmentByHeadings(lines)
	} else {
		chunks = segmentBySize(lines, maxChunkSize)
	}

	// Drop empty or whitespace-only chunks, preserving order.
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

func hasLevel1Heading(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") {
			return true
		}
	}
	return false
}

// segmentByHeadings starts a new chunk at every level-1 heading line, so
// each top-level section stays intact.
func segmentByHeadings(lines []string) []string {
	var chunks []string
	var current []string

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = []string{line}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// segmentBySize accumulates lines until adding the next one would push the
// running character count past maxChunkSize, then closes the chunk at the
// latest period or newline in the accumulated text. When neither exists the
// chunk is emitted whole, so a single unsplittable run may exceed the bound.
func segmentBySize(lines []string, maxChunkSize int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range lines {
		lineLen := utf8.RuneCountInString(line)

		if currentLen+lineLen > maxChunkSize && len(current) > 0 {
			joined := strings.Join(current, "\n")

			splitPos := len(joined)
			lastPeriod := strings.LastIndex(joined, ".")
			lastNewline := strings.LastIndex(joined, "\n")
			if lastPeriod != -1 || lastNewline != -1 {
				splitPos = max(lastPeriod, lastNewline)
			}

			end := splitPos + 1
			if end > len(joined) {
				end = len(joined)
			}

			chunks = append(chunks, strings.TrimRightFunc(joined[:end], unicode.IsSpace))

			remaining := strings.TrimLeftFunc(joined[end:], unicode.IsSpace)
			current = current[:0]
			if remaining != "" {
				current = append(current, remaining)
			}
			currentLen = utf8.RuneCountInString(remaining)
		}

		current = append(current, line)
		currentLen += lineLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}
