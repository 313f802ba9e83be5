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

package tools

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	docparse "github.com/nicholasgasior/docparse-go"
)

// parseResponse mirrors the wire shape callers expect from parse_document.
// Counts are strings for parity with the original tool contract.
type parseResponse struct {
	Status      string `json:"status"`
	DocumentID  string `json:"document_id,omitempty"`
	TotalChunks string `json:"total_chunks,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Error       string `json:"error,omitempty"`
}

func parseDocumentTool() mcp.Tool {
	return mcp.NewTool(
		"parse_document",
		mcp.WithDescription(`Convert a document (PDF, Word, Excel, PPT) to Markdown and segment it for retrieval.

Accepts an http(s) URL or a local file path. On success it returns a document_id and total_chunks; fetch individual segments with get_document_chunk.`),
		mcp.WithString("file_url",
			mcp.Required(),
			mcp.Description(`Document URL or local path, e.g. "https://example.com/document.pdf". Supported: pdf, doc, docx, xls, xlsx, ppt, pptx.`),
		),
	)
}

// handleParseDocument runs the full conversion pipeline. Failures are
// reported inside the result payload as {status: "error", error: ...}; this
// handler never returns a Go error to the tool boundary.
func handleParseDocument(p *docparse.Pipeline, log *logrus.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		locator, err := request.RequireString("file_url")
		if err != nil || locator == "" {
			return resultJSON(parseResponse{Status: "error", Error: "no file path or URL provided"}), nil
		}

		result, err := p.Parse(ctx, locator)
		if err != nil {
			log.WithError(err).WithField("locator", locator).Warn("parse failed")
			return resultJSON(parseResponse{Status: "error", Error: err.Error()}), nil
		}

		return resultJSON(parseResponse{
			Status:      "success",
			DocumentID:  result.DocumentID,
			TotalChunks: strconv.Itoa(result.TotalChunks),
			Filename:    result.Filename,
		}), nil
	}
}
