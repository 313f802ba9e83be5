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
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConversionClient is the subset of the backend client the pipeline needs.
// *Client implements it.
type ConversionClient interface {
	Submit(ctx context.Context, fileBytes []byte, filename, targetFormat string) (string, error)
	AwaitCompletion(ctx context.Context, jobID string, onProgress func(percent int)) (PollResult, error)
	FetchResult(ctx context.Context, jobID, destPath string, onProgress func(written int64)) (string, error)
}

// ParseResult is returned by a successful Parse.
type ParseResult struct {
	DocumentID  string
	TotalChunks int
	Filename    string
}

// Pipeline composes the conversion client, extractor, normalizer, segmenter,
// and document cache into the two externally callable operations.
type Pipeline struct {
	client       ConversionClient
	cache        *DocumentCache
	httpClient   *http.Client
	log          *logrus.Logger
	maxChunkSize int
	targetFormat string
	newID        func() string
}

// NewPipeline creates a Pipeline around client.
func NewPipeline(client ConversionClient, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:       client,
		maxChunkSize: DefaultMaxChunkSize,
		targetFormat: "markdown",
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewDocumentCache(CacheConfig{})
	}
	if p.httpClient == nil {
		p.httpClient = http.DefaultClient
	}
	if p.log == nil {
		p.log = logrus.New()
		p.log.SetOutput(io.Discard)
	}
	return p
}

// Cache returns the pipeline's document cache.
func (p *Pipeline) Cache() *DocumentCache { return p.cache }

// Parse converts the document at locator (an http(s) URL or a local file
// path) and caches its segmented text. The file extension is validated
// before any network traffic. Nothing is written to the cache unless every
// stage succeeds; any stage failure surfaces as a single error carrying the
// originating cause.
func (p *Pipeline) Parse(ctx context.Context, locator string) (*ParseResult, error) {
	filename := filenameFromURL(locator)
	if !isURL(locator) {
		filename = filepath.Base(locator)
	}

	ext := filepath.Ext(filename)
	if !IsSupportedType(ext) {
		return nil, &UnsupportedTypeError{Extension: ext}
	}

	localPath := locator
	if isURL(locator) {
		fetched, err := fetchToTemp(ctx, p.httpClient, locator)
		if err != nil {
			return nil, &ParseError{Stage: "fetch", Err: err}
		}
		defer os.Remove(fetched)
		localPath = fetched
	}

	fileBytes, err := os.ReadFile(localPath)
	if err != nil {
		return nil, &ParseError{Stage: "read", Err: err}
	}

	log := p.log.WithField("filename", filename)

	jobID, err := p.client.Submit(ctx, fileBytes, filename, p.targetFormat)
	if err != nil {
		return nil, &ParseError{Stage: "submit", Err: err}
	}
	log = log.WithField("job_id", jobID)
	log.Info("conversion job submitted")

	if _, err := p.client.AwaitCompletion(ctx, jobID, func(percent int) {
		log.WithField("progress", percent).Debug("converting")
	}); err != nil {
		return nil, &ParseError{Stage: "convert", Err: err}
	}

	tmpDir, err := os.MkdirTemp("", "docparse-result-")
	if err != nil {
		return nil, &ParseError{Stage: "download", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, "parsed_"+jobID+".zip")
	if _, err := p.client.FetchResult(ctx, jobID, archivePath, func(written int64) {
		log.WithField("bytes", written).Debug("downloading result")
	}); err != nil {
		return nil, &ParseError{Stage: "download", Err: err}
	}

	text, err := ExtractText(archivePath)
	if err != nil {
		return nil, &ParseError{Stage: "extract", Err: err}
	}

	chunks := Segment(Normalize(text), p.maxChunkSize)

	documentID := p.newID()
	if err := p.cache.Put(documentID, filename, chunks); err != nil {
		return nil, &ParseError{Stage: "cache", Err: err}
	}

	log.WithFields(logrus.Fields{
		"document_id":  documentID,
		"total_chunks": len(chunks),
	}).Info("document parsed")

	return &ParseResult{
		DocumentID:  documentID,
		TotalChunks: len(chunks),
		Filename:    filename,
	}, nil
}

// GetChunk returns one chunk of a previously parsed document.
func (p *Pipeline) GetChunk(documentID string, chunkIndex int) (ChunkInfo, error) {
	return p.cache.Get(documentID, chunkIndex)
}
