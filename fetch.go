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
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fetchToTemp downloads url into a fresh temporary file and returns its
// path. The caller owns the file and must remove it. A partially written
// file is removed on failure.
func fetchToTemp(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected HTTP status %s", rawURL, resp.Status)
	}

	f, err := os.CreateTemp("", "docparse-*"+filepath.Ext(filenameFromURL(rawURL)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if err := copyStream(f, resp.Body, nil); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}

	return f.Name(), nil
}

// filenameFromURL extracts the filename from a URL path, ignoring query and
// fragment. URLs without a recognizable name fall back to "downloaded_file".
func filenameFromURL(rawURL string) string {
	clean := rawURL
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	name := path.Base(clean)
	if name == "" || name == "." || name == "/" || !strings.Contains(name, ".") {
		return "downloaded_file"
	}
	return name
}

// isURL reports whether locator is an http(s) URL rather than a local path.
func isURL(locator string) bool {
	l := strings.ToLower(locator)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
