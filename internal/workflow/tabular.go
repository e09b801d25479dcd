package workflow

import (
	"context"
	"strings"
	"sync"

	"omnidesk/internal/api"
)

// TabularController gates the data-analysis workflow: upload a CSV, then ask
// any number of questions about it. Queries are only permitted once the
// upload has been acknowledged.
type TabularController struct {
	mu       sync.Mutex
	gate     gate
	svc      api.Service
	message  string
	answer   string
	querying bool
}

// TabularSnapshot is a consistent copy of the data workflow state.
type TabularSnapshot struct {
	State    UploadState
	File     api.FileRef
	Message  string
	Answer   string
	Querying bool
	Err      string
}

func NewTabular(svc api.Service) *TabularController {
	return &TabularController{
		svc: svc,
		gate: newGate(func(f api.FileRef) bool {
			return f.ContentType == "text/csv"
		}, "Please select a valid CSV file"),
	}
}

// Select replaces the chosen data file, clearing any previous answer.
func (c *TabularController) Select(f api.FileRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.querying {
		return ErrBusy
	}
	if err := c.gate.selectFile(f); err != nil {
		return err
	}
	c.message = ""
	c.answer = ""
	return nil
}

// Upload pushes the selected data file to the service.
func (c *TabularController) Upload(ctx context.Context) error {
	c.mu.Lock()
	if c.querying {
		c.mu.Unlock()
		return ErrBusy
	}
	file, err := c.gate.beginUpload()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	ack, err := c.svc.UploadTable(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.gate.failUpload(err.Error())
		return err
	}
	c.gate.finishUpload()
	c.message = ack.Message
	if c.message == "" {
		c.message = "CSV uploaded successfully!"
	}
	return nil
}

// Query asks a question about the uploaded data. Rejected unless the upload
// gate is ready.
func (c *TabularController) Query(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		return validationErr("Please enter a question")
	}

	c.mu.Lock()
	if c.querying || c.gate.state == StateUploading {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.gate.state != StateReady {
		c.mu.Unlock()
		return validationErr("Please upload a CSV file first")
	}
	c.querying = true
	c.gate.err = ""
	c.mu.Unlock()

	answer, err := c.svc.QueryTable(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.querying = false
	if err != nil {
		c.gate.err = err.Error()
		return err
	}
	c.answer = answer
	return nil
}

// Snapshot returns a copy of the current data workflow state.
func (c *TabularController) Snapshot() TabularSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TabularSnapshot{
		State:    c.gate.state,
		File:     c.gate.file,
		Message:  c.message,
		Answer:   c.answer,
		Querying: c.querying,
		Err:      c.gate.err,
	}
}
