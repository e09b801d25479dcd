package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"omnidesk/internal/observability"
)

const maxErrorBodyBytes = 2048

// Client is the single choke point for calls to the remote assistant service.
// It holds no mutable state beyond the base address and is safe to share
// across controllers.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient wraps the service at baseURL. No request timeout is applied; the
// controllers serialize their own calls and a hung call is surfaced to the
// user as a workflow stuck in its in-flight state.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

var _ Service = (*Client)(nil)

// Chat sends one conversational turn.
func (c *Client) Chat(ctx context.Context, question, userID string) (Answer, error) {
	var envelope struct {
		Answer json.RawMessage `json:"answer"`
	}
	payload := map[string]string{"question": question, "user_id": userID}
	if err := c.postJSON(ctx, "/chat", payload, &envelope); err != nil {
		return Answer{}, err
	}
	return decodeAnswer(envelope.Answer), nil
}

// UploadDocument pushes a document file for retrieval-grounded chat.
func (c *Client) UploadDocument(ctx context.Context, file FileRef, userID string) (UploadAck, error) {
	var ack UploadAck
	err := c.postMultipart(ctx, "/upload_pdf", file, "file", map[string]string{"user_id": userID}, &ack)
	return ack, err
}

// UploadAudio sends a recording for transcription, summary and spoken reply.
func (c *Client) UploadAudio(ctx context.Context, file FileRef) (VoiceResponse, error) {
	var body struct {
		Summary   string `json:"summary"`
		AudioPath string `json:"audio_path"`
	}
	if err := c.postMultipart(ctx, "/voice_chat", file, "audio", nil, &body); err != nil {
		return VoiceResponse{}, err
	}
	return VoiceResponse{
		Summary:  body.Summary,
		AudioURL: c.resolveRef(body.AudioPath),
	}, nil
}

// UploadTable pushes a tabular data file for later querying.
func (c *Client) UploadTable(ctx context.Context, file FileRef) (UploadAck, error) {
	var ack UploadAck
	err := c.postMultipart(ctx, "/upload_csv", file, "file", nil, &ack)
	return ack, err
}

// QueryTable asks a question about the previously uploaded table.
func (c *Client) QueryTable(ctx context.Context, question string) (string, error) {
	var body struct {
		Answer string `json:"answer"`
	}
	payload := map[string]string{"question": question}
	if err := c.postJSON(ctx, "/query_csv", payload, &body); err != nil {
		return "", err
	}
	return body.Answer, nil
}

// CreateEvent asks the service to create a calendar event.
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (EventConfirmation, error) {
	// The service treats times as opaque local datetime strings.
	const layout = "2006-01-02T15:04"
	payload := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"start_time":  req.Start.Format(layout),
		"end_time":    req.End.Format(layout),
	}
	var conf EventConfirmation
	if err := c.postJSON(ctx, "/create_calendar_event", payload, &conf); err != nil {
		return EventConfirmation{}, err
	}
	return conf, nil
}

// resolveRef turns a service-relative reference like /audio/tts_output.mp3
// into an absolute URL. Already-absolute references pass through.
func (c *Client) resolveRef(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(path, fmt.Sprintf("encode request: %v", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return c.fail(path, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) postMultipart(ctx context.Context, path string, file FileRef, fileField string, fields map[string]string, out any) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return c.fail(path, fmt.Sprintf("open %s: %v", file.Name, err))
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := createFilePart(w, fileField, file)
	if err != nil {
		return c.fail(path, err.Error())
	}
	if _, err := io.Copy(part, f); err != nil {
		return c.fail(path, fmt.Sprintf("read %s: %v", file.Name, err))
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return c.fail(path, err.Error())
		}
	}
	if err := w.Close(); err != nil {
		return c.fail(path, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return c.fail(path, err.Error())
	}
	// Content type carries the multipart boundary; no override.
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, path, out)
}

// createFilePart mirrors CreateFormFile but keeps the file's own content type
// instead of application/octet-stream.
func createFilePart(w *multipart.Writer, field string, file FileRef) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	h.Set("Content-Type", file.ContentType)
	return w.CreatePart(h)
}

// do issues the request and funnels every failure mode into a TransportError.
func (c *Client) do(req *http.Request, path string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return c.fail(path, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readErrorBody(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return c.fail(path, msg)
	}

	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(path, fmt.Sprintf("read response: %v", err))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(path, fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

func (c *Client) fail(path, msg string) error {
	observability.Logger().Warn("remote call failed", "path", path, "error", msg)
	return &TransportError{Message: msg}
}

func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(body))

	// FastAPI-style services wrap messages as {"detail": …} or {"error": …}.
	var wrapped map[string]json.RawMessage
	if json.Unmarshal(body, &wrapped) == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if raw, ok := wrapped[key]; ok {
				var s string
				if json.Unmarshal(raw, &s) == nil && s != "" {
					return s
				}
			}
		}
	}
	return text
}
