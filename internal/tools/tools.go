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

// Package tools wires the document parsing pipeline into MCP tool and
// resource handlers.
package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	docparse "github.com/nicholasgasior/docparse-go"
)

// Register adds the parse_document and get_document_chunk tools plus the
// supported-types resource to s, all backed by p.
func Register(s *server.MCPServer, p *docparse.Pipeline, log *logrus.Logger) {
	s.AddTool(parseDocumentTool(), handleParseDocument(p, log))
	s.AddTool(getDocumentChunkTool(), handleGetDocumentChunk(p, log))
	s.AddResource(supportedTypesResource())
}

// resultJSON marshals v into a text tool result. The payload is small and
// fully under our control, so a marshal failure is a programming error.
func resultJSON(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error())
	}
	return mcp.NewToolResultText(string(data))
}
