package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service defines the remote capabilities used by the workflow controllers.
type Service interface {
	Chat(ctx context.Context, question, userID string) (Answer, error)
	UploadDocument(ctx context.Context, file FileRef, userID string) (UploadAck, error)
	UploadAudio(ctx context.Context, file FileRef) (VoiceResponse, error)
	UploadTable(ctx context.Context, file FileRef) (UploadAck, error)
	QueryTable(ctx context.Context, question string) (string, error)
	CreateEvent(ctx context.Context, req EventRequest) (EventConfirmation, error)
}

// FileRef is a handle to a local file picked for upload. The core never reads
// file contents itself; the client streams them when the upload is issued.
type FileRef struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// NewFileRef stats path and detects a content type from its extension.
func NewFileRef(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	return FileRef{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: detectContentType(path),
		Size:        info.Size(),
	}, nil
}

// Extensions the remote service cares about, fixed so detection does not vary
// with the host's mime database.
var knownTypes = map[string]string{
	".pdf":  "application/pdf",
	".csv":  "text/csv",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

func detectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := knownTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
		return strings.TrimSpace(ct)
	}
	return "application/octet-stream"
}

// AnswerKind tags the decoded shape of a chat answer payload.
type AnswerKind int

const (
	// AnswerOther covers null and any scalar that is not a string.
	AnswerOther AnswerKind = iota
	AnswerString
	// AnswerResult is an object carrying a "result" key.
	AnswerResult
	// AnswerObject is any other object or array, kept raw for display.
	AnswerObject
)

// Answer is the polymorphic payload of a chat turn. The remote service may
// return a plain string, an object with a "result" field, or an arbitrary
// object; decoding is defensive and never fails the call.
type Answer struct {
	Kind AnswerKind
	// Text holds the string answer, or the "result" value for AnswerResult.
	Text string
	// Raw holds the original JSON for AnswerObject payloads.
	Raw json.RawMessage
}

func decodeAnswer(raw json.RawMessage) Answer {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Answer{Kind: AnswerOther}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Answer{Kind: AnswerString, Text: s}
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err == nil {
			if res, ok := obj["result"]; ok {
				return Answer{Kind: AnswerResult, Text: rawToText(res)}
			}
			return Answer{Kind: AnswerObject, Raw: raw}
		}
	}
	if strings.HasPrefix(trimmed, "[") {
		return Answer{Kind: AnswerObject, Raw: raw}
	}

	// numbers, booleans, malformed bodies
	return Answer{Kind: AnswerOther}
}

// rawToText renders a "result" value: strings verbatim, anything else as
// indented JSON.
func rawToText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return IndentJSON(raw)
}

// IndentJSON pretty-prints raw JSON, falling back to the raw text when it
// cannot be re-encoded.
func IndentJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// UploadAck acknowledges a document or table upload.
type UploadAck struct {
	Message string `json:"message"`
}

// VoiceResponse carries the transcription summary and, when the service
// produced one, an absolute URL to the synthesized reply audio.
type VoiceResponse struct {
	Summary  string
	AudioURL string
}

// EventRequest describes a calendar event to create.
type EventRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// EventConfirmation is the service's answer to an event creation.
type EventConfirmation struct {
	Success   bool   `json:"success"`
	EventLink string `json:"event_link"`
}

// TransportError is the uniform failure shape for remote calls: non-2xx
// status, network failure and body decode failure all collapse into it.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return e.Message
}
