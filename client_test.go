package docparse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeBackend simulates the three conversion endpoints. statusResponses is
// consumed one entry per poll; the final entry repeats once exhausted.
type fakeBackend struct {
	t               *testing.T
	submitCode      int    // envelope business code, 200 when zero
	submitHTTPCode  int    // HTTP status, 200 when zero
	submitData      string // job id, empty for null data
	statusResponses []string
	statusPolls     int
	archiveBytes    []byte
}

func (b *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/documentConvert/documentConvertByFile", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			b.t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("toFileSuffix"); got != "markdown" {
			b.t.Errorf("toFileSuffix = %q, want %q", got, "markdown")
		}
		if got := r.FormValue("fileName"); got == "" {
			b.t.Error("fileName field missing")
		}

		httpCode := b.submitHTTPCode
		if httpCode == 0 {
			httpCode = http.StatusOK
		}
		code := b.submitCode
		if code == 0 {
			code = 200
		}
		data := "null"
		if b.submitData != "" {
			data = fmt.Sprintf("%q", b.submitData)
		}
		w.WriteHeader(httpCode)
		fmt.Fprintf(w, `{"code": %d, "msg": "backend says no", "data": %s}`, code, data)
	})

	mux.HandleFunc("/documentConvert/getDocumentInfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fileUuid"); got == "" {
			b.t.Error("fileUuid query param missing")
		}
		i := b.statusPolls
		if i >= len(b.statusResponses) {
			i = len(b.statusResponses) - 1
		}
		b.statusPolls++
		fmt.Fprintf(w, `{"code": 200, "msg": "", "data": %s}`, b.statusResponses[i])
	})

	mux.HandleFunc("/documentConvert/downloadFile", func(w http.ResponseWriter, r *http.Request) {
		if b.archiveBytes == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(b.archiveBytes)
	})

	return httptest.NewServer(mux)
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		BaseURL:      srv.URL,
		PollInterval: 5 * time.Millisecond,
		Timeout:      time.Second,
	})
}

func TestClientSubmit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		backend := &fakeBackend{t: t, submitData: "job-123"}
		srv := backend.server()
		defer srv.Close()

		jobID, err := newTestClient(srv).Submit(context.Background(), []byte("fake pdf"), "doc.pdf", "markdown")
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if jobID != "job-123" {
			t.Errorf("Submit() = %q, want %q", jobID, "job-123")
		}
	})

	t.Run("business failure", func(t *testing.T) {
		backend := &fakeBackend{t: t, submitCode: 1001, submitData: "x"}
		srv := backend.server()
		defer srv.Close()

		_, err := newTestClient(srv).Submit(context.Background(), []byte("x"), "doc.pdf", "markdown")
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("Submit() error = %v, want BackendError", err)
		}
		if be.Transport {
			t.Error("business failure misreported as transport failure")
		}
		if be.Code != 1001 {
			t.Errorf("BackendError.Code = %d, want 1001", be.Code)
		}
		if be.Message != "backend says no" {
			t.Errorf("BackendError.Message = %q, want backend message", be.Message)
		}
	})

	t.Run("non-200 HTTP status", func(t *testing.T) {
		backend := &fakeBackend{t: t, submitHTTPCode: http.StatusBadGateway, submitData: "x"}
		srv := backend.server()
		defer srv.Close()

		_, err := newTestClient(srv).Submit(context.Background(), []byte("x"), "doc.pdf", "markdown")
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("Submit() error = %v, want BackendError", err)
		}
		if be.Code != http.StatusBadGateway {
			t.Errorf("BackendError.Code = %d, want %d", be.Code, http.StatusBadGateway)
		}
	})

	t.Run("non-JSON error body keeps HTTP status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "upstream unavailable")
		}))
		defer srv.Close()

		_, err := newTestClient(srv).Submit(context.Background(), []byte("x"), "doc.pdf", "markdown")
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("Submit() error = %v, want BackendError", err)
		}
		if be.Transport {
			t.Error("HTTP failure misreported as transport failure")
		}
		if be.Code != http.StatusServiceUnavailable {
			t.Errorf("BackendError.Code = %d, want %d", be.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("empty data payload", func(t *testing.T) {
		backend := &fakeBackend{t: t}
		srv := backend.server()
		defer srv.Close()

		_, err := newTestClient(srv).Submit(context.Background(), []byte("x"), "doc.pdf", "markdown")
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("Submit() error = %v, want BackendError", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		backend := &fakeBackend{t: t, submitData: "job-1"}
		srv := backend.server()
		srv.Close() // connection refused

		_, err := newTestClient(srv).Submit(context.Background(), []byte("x"), "doc.pdf", "markdown")
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("Submit() error = %v, want BackendError", err)
		}
		if !be.Transport {
			t.Error("transport failure misreported as business failure")
		}
	})
}

func TestClientPollStatus(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantStatus   JobStatus
		wantProgress int
		wantCause    string
	}{
		{
			name:         "in progress",
			response:     `{"fileStatus": 100, "progress": 0.42}`,
			wantStatus:   StatusProcessing,
			wantProgress: 42,
		},
		{
			name:         "status 203 still in progress",
			response:     `{"fileStatus": 203, "progress": 0.9}`,
			wantStatus:   StatusProcessing,
			wantProgress: 90,
		},
		{
			name:         "terminal success",
			response:     `{"fileStatus": 202, "progress": 0.97}`,
			wantStatus:   StatusSucceeded,
			wantProgress: 100,
		},
		{
			name:       "terminal failure with cause",
			response:   `{"fileStatus": 204, "progress": 0.5, "transFailureCause": "corrupt file"}`,
			wantStatus: StatusFailed,
			wantCause:  "corrupt file",
		},
		{
			name:       "terminal failure without cause",
			response:   `{"fileStatus": 210, "progress": 0.5}`,
			wantStatus: StatusFailed,
			wantCause:  "unknown failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{t: t, statusResponses: []string{tt.response}}
			srv := backend.server()
			defer srv.Close()

			res, err := newTestClient(srv).PollStatus(context.Background(), "job-1")
			if err != nil {
				t.Fatalf("PollStatus() error: %v", err)
			}
			if res.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", res.Status, tt.wantStatus)
			}
			if tt.wantProgress != 0 && res.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", res.Progress, tt.wantProgress)
			}
			if res.FailureCause != tt.wantCause {
				t.Errorf("FailureCause = %q, want %q", res.FailureCause, tt.wantCause)
			}
		})
	}
}

func TestAwaitCompletion(t *testing.T) {
	t.Run("monotonic progress events", func(t *testing.T) {
		backend := &fakeBackend{t: t, statusResponses: []string{
			`{"fileStatus": 100, "progress": 0.3}`,
			`{"fileStatus": 100, "progress": 0.2}`, // backend regression, must not be reported
			`{"fileStatus": 100, "progress": 0.9}`,
			`{"fileStatus": 202, "progress": 1.0}`,
		}}
		srv := backend.server()
		defer srv.Close()

		var events []int
		res, err := newTestClient(srv).AwaitCompletion(context.Background(), "job-1", func(p int) {
			events = append(events, p)
		})
		if err != nil {
			t.Fatalf("AwaitCompletion() error: %v", err)
		}
		if res.Status != StatusSucceeded {
			t.Errorf("Status = %v, want StatusSucceeded", res.Status)
		}

		want := []int{30, 90, 100}
		if len(events) != len(want) {
			t.Fatalf("progress events = %v, want %v", events, want)
		}
		for i := range want {
			if events[i] != want[i] {
				t.Errorf("event %d = %d, want %d", i, events[i], want[i])
			}
		}
	})

	t.Run("backend-reported failure", func(t *testing.T) {
		backend := &fakeBackend{t: t, statusResponses: []string{
			`{"fileStatus": 100, "progress": 0.1}`,
			`{"fileStatus": 205, "progress": 0.1, "transFailureCause": "unreadable document"}`,
		}}
		srv := backend.server()
		defer srv.Close()

		_, err := newTestClient(srv).AwaitCompletion(context.Background(), "job-1", nil)
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("AwaitCompletion() error = %v, want BackendError", err)
		}
		if be.Message != "unreadable document" {
			t.Errorf("BackendError.Message = %q, want failure cause", be.Message)
		}
		if IsParseTimeout(err) {
			t.Error("backend failure misclassified as timeout")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		backend := &fakeBackend{t: t, statusResponses: []string{
			`{"fileStatus": 100, "progress": 0.5}`,
		}}
		srv := backend.server()
		defer srv.Close()

		client := NewClient(ClientConfig{
			BaseURL:      srv.URL,
			PollInterval: 5 * time.Millisecond,
			Timeout:      30 * time.Millisecond,
		})

		_, err := client.AwaitCompletion(context.Background(), "job-1", nil)
		if !IsParseTimeout(err) {
			t.Fatalf("AwaitCompletion() error = %v, want ParseTimeoutError", err)
		}
	})

	t.Run("caller deadline aborts polling", func(t *testing.T) {
		backend := &fakeBackend{t: t, statusResponses: []string{
			`{"fileStatus": 100, "progress": 0.5}`,
		}}
		srv := backend.server()
		defer srv.Close()

		client := NewClient(ClientConfig{
			BaseURL:      srv.URL,
			PollInterval: 500 * time.Millisecond,
			Timeout:      time.Hour,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := client.AwaitCompletion(ctx, "job-1", nil)
		if err == nil {
			t.Fatal("expected error from cancelled context")
		}
		if IsParseTimeout(err) {
			t.Error("context deadline misclassified as poll timeout")
		}
		if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
			t.Errorf("AwaitCompletion did not abort promptly: took %s", elapsed)
		}
	})
}

func TestFetchResult(t *testing.T) {
	t.Run("streams archive to destination", func(t *testing.T) {
		payload := make([]byte, 3*downloadBufferSize+17) // force multiple read chunks
		for i := range payload {
			payload[i] = byte(i % 251)
		}
		backend := &fakeBackend{t: t, archiveBytes: payload}
		srv := backend.server()
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "result.zip")
		var lastReported int64
		got, err := newTestClient(srv).FetchResult(context.Background(), "job-1", dest, func(written int64) {
			if written < lastReported {
				t.Errorf("progress went backwards: %d after %d", written, lastReported)
			}
			lastReported = written
		})
		if err != nil {
			t.Fatalf("FetchResult() error: %v", err)
		}
		if got != dest {
			t.Errorf("FetchResult() = %q, want %q", got, dest)
		}
		if lastReported != int64(len(payload)) {
			t.Errorf("final progress = %d, want %d", lastReported, len(payload))
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("read destination: %v", err)
		}
		if len(data) != len(payload) {
			t.Fatalf("destination has %d bytes, want %d", len(data), len(payload))
		}
	})

	t.Run("no partial file on HTTP error", func(t *testing.T) {
		backend := &fakeBackend{t: t} // archiveBytes nil -> 404
		srv := backend.server()
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "result.zip")
		_, err := newTestClient(srv).FetchResult(context.Background(), "job-1", dest, nil)
		var be *BackendError
		if !errors.As(err, &be) {
			t.Fatalf("FetchResult() error = %v, want BackendError", err)
		}
		if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
			t.Error("destination file left behind after failed download")
		}
	})
}

func TestCopyStreamPropagatesReadError(t *testing.T) {
	r := io.MultiReader(
		io.LimitReader(neverEnding('a'), 100),
		errReader{},
	)
	if err := copyStream(io.Discard, r, nil); err == nil {
		t.Error("expected read error to propagate")
	}
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
