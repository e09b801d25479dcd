package workflow

import (
	"context"
	"sync"

	"omnidesk/internal/api"
)

// DocumentController gates the document-grounded chat workflow. A document
// has no query step of its own: once the upload is acknowledged, follow-up
// questions go through the chat workflow, and the snapshot says so.
type DocumentController struct {
	mu      sync.Mutex
	gate    gate
	svc     api.Service
	userID  string
	message string
}

// DocumentSnapshot is a consistent copy of the document workflow state.
type DocumentSnapshot struct {
	State    UploadState
	File     api.FileRef
	Message  string
	Err      string
	// AskViaChat signals that the uploaded document is queried through the
	// chat workflow, not a document-specific one.
	AskViaChat bool
}

func NewDocument(svc api.Service, userID string) *DocumentController {
	return &DocumentController{
		svc:    svc,
		userID: userID,
		gate: newGate(func(f api.FileRef) bool {
			return f.ContentType == "application/pdf"
		}, "Please select a valid PDF file"),
	}
}

// Select replaces the chosen document, clearing any previous upload result.
func (c *DocumentController) Select(f api.FileRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate.selectFile(f); err != nil {
		return err
	}
	c.message = ""
	return nil
}

// Upload pushes the selected document to the service.
func (c *DocumentController) Upload(ctx context.Context) error {
	c.mu.Lock()
	file, err := c.gate.beginUpload()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	ack, err := c.svc.UploadDocument(ctx, file, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.gate.failUpload(err.Error())
		return err
	}
	c.gate.finishUpload()
	c.message = ack.Message
	if c.message == "" {
		c.message = "Document uploaded successfully!"
	}
	return nil
}

// Snapshot returns a copy of the current document workflow state.
func (c *DocumentController) Snapshot() DocumentSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DocumentSnapshot{
		State:      c.gate.state,
		File:       c.gate.file,
		Message:    c.message,
		Err:        c.gate.err,
		AskViaChat: c.gate.state == StateReady,
	}
}
