package backendapi

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
	"path/filepath"
	"strings"
	"time"
)

// HTTPTransport is the production Transport over net/http. It implements both
// modes: standard requests (JSON body, or query parameters for GET/HEAD) and
// multipart file uploads. Upload responses are delivered with a string body,
// leaving the decode step to the pipeline.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps the given http.Client; nil uses a client with a 30
// second timeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPTransport{client: client}
}

// Send performs the exchange described by the descriptor.
func (t *HTTPTransport) Send(ctx context.Context, d *Descriptor) (*TransportResult, error) {
	if d.Upload != nil {
		return t.sendUpload(ctx, d)
	}
	return t.sendRequest(ctx, d)
}

func (t *HTTPTransport) sendRequest(ctx context.Context, d *Descriptor) (*TransportResult, error) {
	method := strings.ToUpper(d.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := d.URL
	var body io.Reader
	contentType := ""

	if d.Data != nil {
		if method == http.MethodGet || method == http.MethodHead {
			withQuery, err := appendQuery(target, d.Data)
			if err != nil {
				return nil, fmt.Errorf("request:fail %v", err)
			}
			target = withQuery
		} else {
			raw, err := json.Marshal(d.Data)
			if err != nil {
				return nil, fmt.Errorf("request:fail %v", err)
			}
			body = bytes.NewReader(raw)
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("request:fail %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range d.Header {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request:fail %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("request:fail %v", err)
	}

	return &TransportResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decodeResponseBody(resp.Header.Get("Content-Type"), raw),
	}, nil
}

func (t *HTTPTransport) sendUpload(ctx context.Context, d *Descriptor) (*TransportResult, error) {
	file, err := os.Open(d.Upload.FilePath)
	if err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	field := d.Upload.FileField
	if field == "" {
		field = "file"
	}
	part, err := writer.CreateFormFile(field, filepath.Base(d.Upload.FilePath))
	if err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}

	if form, ok := d.Data.(map[string]any); ok {
		for k, v := range form {
			if err := writer.WriteField(k, fmt.Sprintf("%v", v)); err != nil {
				return nil, fmt.Errorf("uploadFile:fail %v", err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}

	method := strings.ToUpper(d.Method)
	if method == "" || method == http.MethodGet {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, d.URL, &buf)
	if err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range d.Header {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("uploadFile:fail %v", err)
	}

	// Upload responses always carry the body as a string; the pipeline owns
	// the decode step.
	return &TransportResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(raw),
	}, nil
}

func appendQuery(target string, data any) (string, error) {
	params, ok := data.(map[string]any)
	if !ok {
		return "", fmt.Errorf("query parameters must be a map, got %T", data)
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, fmt.Sprintf("%v", v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decodeResponseBody(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	if strings.Contains(contentType, "json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
	}
	return string(raw)
}
