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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend job status codes carried in the status envelope's fileStatus
// field. 202 is terminal success, anything at or above 204 is terminal
// failure, everything else means the job is still being processed.
const (
	fileStatusSucceeded = 202
	fileStatusFailedMin = 204
)

// JobStatus is the client-side view of a conversion job's state.
type JobStatus int

const (
	StatusProcessing JobStatus = iota
	StatusSucceeded
	StatusFailed
)

func (s JobStatus) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// PollResult is one observation of a conversion job.
type PollResult struct {
	Status       JobStatus
	Progress     int // percentage, 0-100
	FailureCause string
}

// ClientConfig configures a Client. BaseURL is required; everything else
// has a usable default.
type ClientConfig struct {
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration // wall-clock sleep between status polls
	Timeout      time.Duration // overall limit for AwaitCompletion
	DownloadType int           // backend result-type selector
	Logger       *logrus.Logger
}

const (
	defaultPollInterval = 2 * time.Second
	defaultAwaitTimeout = time.Hour
	defaultDownloadType = 3
	downloadBufferSize  = 8 * 1024
)

// Client talks to the external document conversion backend.
type Client struct {
	baseURL      string
	http         *http.Client
	pollInterval time.Duration
	timeout      time.Duration
	downloadType int
	log          *logrus.Logger
}

// NewClient creates a Client from cfg, filling in defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         cfg.HTTPClient,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.Timeout,
		downloadType: cfg.DownloadType,
		log:          cfg.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.timeout <= 0 {
		c.timeout = defaultAwaitTimeout
	}
	if c.downloadType == 0 {
		c.downloadType = defaultDownloadType
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return c
}

// envelope is the backend's uniform JSON response wrapper.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// jobInfo is the payload of a status query.
type jobInfo struct {
	FileStatus        int     `json:"fileStatus"`
	Progress          float64 `json:"progress"` // fraction in [0, 1]
	TransFailureCause string  `json:"transFailureCause"`
}

// Submit uploads fileBytes to the backend and requests conversion to
// targetFormat (e.g. "markdown"). It returns the backend-assigned job id.
func (c *Client) Submit(ctx context.Context, fileBytes []byte, filename, targetFormat string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}
	if _, err := part.Write(fileBytes); err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}
	if err := w.WriteField("toFileSuffix", targetFormat); err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}
	if err := w.WriteField("fileName", filename); err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/documentConvert/documentConvertByFile", &body)
	if err != nil {
		return "", &BackendError{Op: OpSubmit, Transport: true, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	data, err := c.doEnvelope(req, OpSubmit)
	if err != nil {
		return "", err
	}

	var jobID string
	if err := json.Unmarshal(data, &jobID); err != nil || jobID == "" {
		return "", &BackendError{Op: OpSubmit, Message: "response payload carried no job id"}
	}

	c.log.WithFields(logrus.Fields{"job_id": jobID, "filename": filename}).Debug("conversion job submitted")
	return jobID, nil
}

// PollStatus fetches the current status of jobID.
func (c *Client) PollStatus(ctx context.Context, jobID string) (PollResult, error) {
	u := c.baseURL + "/documentConvert/getDocumentInfo?fileUuid=" + url.QueryEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return PollResult{}, &BackendError{Op: OpStatus, Transport: true, Err: err}
	}

	data, err := c.doEnvelope(req, OpStatus)
	if err != nil {
		return PollResult{}, err
	}

	var info jobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return PollResult{}, &BackendError{Op: OpStatus, Transport: true, Err: fmt.Errorf("decode job info: %w", err)}
	}

	res := PollResult{Progress: int(info.Progress * 100)}
	switch {
	case info.FileStatus == fileStatusSucceeded:
		res.Status = StatusSucceeded
		res.Progress = 100
	case info.FileStatus >= fileStatusFailedMin:
		res.Status = StatusFailed
		res.FailureCause = info.TransFailureCause
		if res.FailureCause == "" {
			res.FailureCause = "unknown failure"
		}
	default:
		res.Status = StatusProcessing
	}
	return res, nil
}

// AwaitCompletion polls jobID until the job succeeds, fails, the configured
// timeout elapses, or ctx is cancelled. Progress is reported through
// onProgress (may be nil) as a percentage; values are only emitted when
// they increase, regardless of what the backend reports.
func (c *Client) AwaitCompletion(ctx context.Context, jobID string, onProgress func(percent int)) (PollResult, error) {
	start := time.Now()
	lastProgress := 0

	for {
		res, err := c.PollStatus(ctx, jobID)
		if err != nil {
			return PollResult{}, err
		}

		if res.Progress > lastProgress {
			lastProgress = res.Progress
			if onProgress != nil {
				onProgress(res.Progress)
			}
			c.log.WithFields(logrus.Fields{"job_id": jobID, "progress": res.Progress}).Debug("conversion progress")
		}

		switch res.Status {
		case StatusSucceeded:
			return res, nil
		case StatusFailed:
			return res, &BackendError{Op: OpConvert, Message: res.FailureCause}
		}

		if time.Since(start) > c.timeout {
			return res, &ParseTimeoutError{JobID: jobID, Timeout: c.timeout}
		}

		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// FetchResult streams the result archive of jobID to destPath. The
// destination file is removed on any failure so a partial download is never
// left behind. onProgress (may be nil) receives the cumulative byte count.
func (c *Client) FetchResult(ctx context.Context, jobID, destPath string, onProgress func(written int64)) (string, error) {
	u := c.baseURL + "/documentConvert/downloadFile?fileUuid=" + url.QueryEscape(jobID) +
		"&type=" + strconv.Itoa(c.downloadType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &BackendError{Op: OpDownload, Transport: true, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &BackendError{Op: OpDownload, Transport: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Op: OpDownload, Code: resp.StatusCode,
			Message: "unexpected HTTP status " + resp.Status}
	}

	f, err := os.Create(destPath)
	if err != nil {
		return "", &BackendError{Op: OpDownload, Transport: true, Err: err}
	}

	if err := copyStream(f, resp.Body, onProgress); err != nil {
		f.Close()
		os.Remove(destPath)
		return "", &BackendError{Op: OpDownload, Transport: true, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return "", &BackendError{Op: OpDownload, Transport: true, Err: err}
	}

	c.log.WithFields(logrus.Fields{"job_id": jobID, "path": destPath}).Debug("result archive downloaded")
	return destPath, nil
}

// copyStream copies src to dst in fixed-size chunks so memory use stays
// bounded regardless of archive size.
func copyStream(dst io.Writer, src io.Reader, onProgress func(written int64)) error {
	buf := make([]byte, downloadBufferSize)
	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// doEnvelope performs req and unwraps the backend's {code, msg, data}
// envelope, mapping transport failures, non-200 HTTP statuses, non-200
// business codes, and empty payloads to BackendErrors.
func (c *Client) doEnvelope(req *http.Request, op string) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &BackendError{Op: op, Transport: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendError{Op: op, Transport: true, Err: err}
	}

	// On a non-200 status the body may not be an envelope at all; report
	// the status either way and use the envelope message when there is one.
	if resp.StatusCode != http.StatusOK {
		msg := "unexpected HTTP status " + resp.Status
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Msg != "" {
			msg = env.Msg
		}
		return nil, &BackendError{Op: op, Code: resp.StatusCode, Message: msg}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &BackendError{Op: op, Transport: true, Err: fmt.Errorf("decode response: %w", err)}
	}

	// A missing code field is treated as success, matching the backend's
	// observed behavior.
	if env.Code != 0 && env.Code != http.StatusOK {
		msg := env.Msg
		if msg == "" {
			msg = fmt.Sprintf("business error code %d", env.Code)
		}
		return nil, &BackendError{Op: op, Code: env.Code, Message: msg}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &BackendError{Op: op, Message: "response payload was empty"}
	}

	return env.Data, nil
}
