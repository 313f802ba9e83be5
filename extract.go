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
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ExtractText pulls the converted text out of a result archive. Markdown
// entries are preferred; if the archive carries none, plain-text entries
// are used instead. Entries are concatenated in archive order, separated by
// a blank line. Decoding is permissive: entries that are not valid UTF-8
// are charset-detected and re-decoded, and bytes that still cannot be
// decoded are dropped rather than aborting extraction.
func ExtractText(archivePath string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	parts := collectEntries(&zr.Reader, isMarkdownEntry)
	if len(parts) == 0 {
		parts = collectEntries(&zr.Reader, isPlainTextEntry)
	}
	if len(parts) == 0 {
		return "", &EmptyContentError{Archive: archivePath}
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n")), nil
}

// collectEntries reads every non-directory entry accepted by match and
// returns the decoded, non-empty contents in archive order.
func collectEntries(zr *zip.Reader, match func(name string, data []byte) bool) []string {
	var parts []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if !match(f.Name, data) {
			continue
		}
		if text := decodePermissive(data); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return parts
}

func isMarkdownEntry(name string, _ []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// isPlainTextEntry accepts .txt/.text entries, and entries with no
// extension at all whose content sniffs as plain text.
func isPlainTextEntry(name string, data []byte) bool {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".txt", ".text":
		return true
	case "":
		return mimetype.Detect(data).Is("text/plain")
	}
	return false
}

// decodePermissive converts raw entry bytes to a UTF-8 string, detecting
// the charset when the bytes are not already valid UTF-8. Invalid byte
// sequences are dropped.
func decodePermissive(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(data); err == nil {
		if enc := lookupEncoding(result.Charset); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(string(data), "")
}

// lookupEncoding maps the charset names chardet reports to Go decoders.
func lookupEncoding(charset string) encoding.Encoding {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(charset, "-", ""), "_", "")) {
	case "utf8", "ascii", "usascii":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "iso88591", "latin1":
		return charmap.ISO8859_1
	case "windows1251", "cp1251":
		return charmap.Windows1251
	case "windows1252", "cp1252":
		return charmap.Windows1252
	case "shiftjis", "sjis", "cp932", "windows31j":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "euckr", "cp949":
		return korean.EUCKR
	case "gb2312", "gbk", "cp936", "gb18030":
		return simplifiedchinese.GBK
	case "big5", "cp950":
		return traditionalchinese.Big5
	}
	return nil
}
