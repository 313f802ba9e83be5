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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	docparse "github.com/nicholasgasior/docparse-go"
)

type chunkResponse struct {
	DocumentID   string `json:"document_id"`
	CurrentChunk int    `json:"current_chunk"`
	TotalChunks  int    `json:"total_chunks"`
	Content      string `json:"content"`
}

func getDocumentChunkTool() mcp.Tool {
	return mcp.NewTool(
		"get_document_chunk",
		mcp.WithDescription(`Return one segment of a parsed document by document_id and segment index.

Call parse_document first to obtain the document_id and total segment count. Segments are returned one at a time to keep responses bounded.`),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document id returned by parse_document"),
		),
		mcp.WithNumber("chunk_index",
			mcp.Required(),
			mcp.Description("0-based segment index (0 is the first segment)"),
		),
	)
}

// handleGetDocumentChunk looks up one cached chunk. Cache misses and bad
// indexes surface as tool errors carrying the typed error message.
func handleGetDocumentChunk(p *docparse.Pipeline, log *logrus.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentID, err := request.RequireString("document_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		chunkIndex, err := request.RequireInt("chunk_index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := p.GetChunk(documentID, chunkIndex)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"document_id": documentID,
				"chunk_index": chunkIndex,
			}).Debug("chunk lookup failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		return resultJSON(chunkResponse{
			DocumentID:   info.DocumentID,
			CurrentChunk: info.CurrentChunk,
			TotalChunks:  info.TotalChunks,
			Content:      info.Content,
		}), nil
	}
}
