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
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	docparse "github.com/nicholasgasior/docparse-go"
)

const supportedTypesURI = "document://supported-types"

type supportedTypesPayload struct {
	SupportedTypes []docparse.FileFormat `json:"supported_types"`
	Description    string                `json:"description"`
}

// supportedTypesResource exposes the static capability listing.
func supportedTypesResource() (mcp.Resource, server.ResourceHandlerFunc) {
	resource := mcp.NewResource(
		supportedTypesURI,
		"Supported document types",
		mcp.WithResourceDescription("Document formats the conversion backend accepts, with extensions and MIME types"),
		mcp.WithMIMEType("application/json"),
	)

	handler := func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload := supportedTypesPayload{
			SupportedTypes: docparse.SupportedFormats(),
			Description:    "Parses documents and returns the extracted content as Markdown",
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      supportedTypesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}

	return resource, handler
}
