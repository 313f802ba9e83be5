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
	"sort"
	"strings"
)

// FileFormat describes one supported input format for the capability
// listing exposed by the tool surface.
type FileFormat struct {
	Format     string   `json:"format"`
	Extensions []string `json:"extensions"`
	MIMETypes  []string `json:"mime_types"`
}

var supportedFormats = []FileFormat{
	{
		Format:     "PDF",
		Extensions: []string{".pdf"},
		MIMETypes:  []string{"application/pdf"},
	},
	{
		Format:     "Word",
		Extensions: []string{".doc", ".docx"},
		MIMETypes: []string{
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	},
	{
		Format:     "Excel",
		Extensions: []string{".xls", ".xlsx"},
		MIMETypes: []string{
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
	},
	{
		Format:     "PPT",
		Extensions: []string{".ppt", ".pptx"},
		MIMETypes: []string{
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		},
	},
}

// SupportedFormats returns the static capability listing: every format the
// conversion backend accepts, with extensions and MIME types.
func SupportedFormats() []FileFormat {
	out := make([]FileFormat, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// SupportedExtensions returns the sorted list of accepted file extensions,
// each with a leading dot.
func SupportedExtensions() []string {
	var exts []string
	for _, f := range supportedFormats {
		exts = append(exts, f.Extensions...)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedType reports whether ext names a supported input format.
// Matching is case-insensitive and tolerates a missing leading dot.
func IsSupportedType(ext string) bool {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, f := range supportedFormats {
		for _, e := range f.Extensions {
			if e == ext {
				return true
			}
		}
	}
	return false
}
