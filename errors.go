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
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnsupportedTypeError is returned when the input file extension is not one
// of the types the conversion backend accepts. It is raised before any
// network call is made.
type UnsupportedTypeError struct {
	Extension string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (supported: %s)",
		e.Extension, strings.Join(SupportedExtensions(), ", "))
}

// Backend operation names used in BackendError.Op.
const (
	OpSubmit   = "submit"
	OpStatus   = "status query"
	OpDownload = "download"
	OpConvert  = "conversion"
)

// BackendError is returned when a call to the conversion backend fails.
// Transport distinguishes network/decoding failures from failures the
// backend itself reported through its response envelope.
type BackendError struct {
	Op        string // one of the Op* constants
	Transport bool   // true for network or response-decoding failures
	Code      int    // HTTP status or embedded business code, 0 if unknown
	Message   string // backend-supplied message, empty on transport errors
	Err       error  // underlying cause on transport errors
}

func (e *BackendError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed: ")
	if e.Transport {
		b.WriteString("transport error")
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		}
		return b.String()
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, "backend code %d", e.Code)
		if e.Message != "" {
			fmt.Fprintf(&b, ": %s", e.Message)
		}
		return b.String()
	}
	b.WriteString(e.Message)
	return b.String()
}

func (e *BackendError) Unwrap() error { return e.Err }

// ParseTimeoutError is returned when a conversion job does not reach a
// terminal state within the configured timeout. It is distinct from a
// backend-reported failure and is not retryable.
type ParseTimeoutError struct {
	JobID   string
	Timeout time.Duration
}

func (e *ParseTimeoutError) Error() string {
	return fmt.Sprintf("conversion of job %s timed out after %s", e.JobID, e.Timeout)
}

// EmptyContentError is returned when the result archive contains no
// markdown or plain-text entries to extract.
type EmptyContentError struct {
	Archive string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("no markdown or text content found in archive %s", e.Archive)
}

// UnknownDocumentError is returned when a document id is not present in the
// cache (never parsed, expired, or evicted).
type UnknownDocumentError struct {
	DocumentID string
}

func (e *UnknownDocumentError) Error() string {
	return fmt.Sprintf("unknown document id %q (not parsed or expired)", e.DocumentID)
}

// IndexOutOfRangeError is returned when a chunk index falls outside
// [0, TotalChunks).
type IndexOutOfRangeError struct {
	DocumentID string
	Index      int
	Total      int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("chunk index %d out of range for document %s (total chunks: %d, valid: 0..%d)",
		e.Index, e.DocumentID, e.Total, e.Total-1)
}

// DuplicateIDError is returned when a document id is inserted twice.
type DuplicateIDError struct {
	DocumentID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("document id %q already cached", e.DocumentID)
}

// ParseError aggregates a pipeline-stage failure with the stage it
// originated from.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed at %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsUnsupportedType reports whether the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var target *UnsupportedTypeError
	return errors.As(err, &target)
}

// IsParseTimeout reports whether the error is a ParseTimeoutError.
func IsParseTimeout(err error) bool {
	var target *ParseTimeoutError
	return errors.As(err, &target)
}
