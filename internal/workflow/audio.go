package workflow

import (
	"context"
	"strings"
	"sync"

	"omnidesk/internal/api"
)

// AudioController gates the voice workflow: upload a recording, get back a
// summary and optionally a spoken reply. Summary and audio reference are set
// and cleared together; a partial result is never exposed.
type AudioController struct {
	mu       sync.Mutex
	gate     gate
	svc      api.Service
	summary  string
	audioURL string
}

// AudioSnapshot is a consistent copy of the voice workflow state.
type AudioSnapshot struct {
	State    UploadState
	File     api.FileRef
	Summary  string
	AudioURL string
	Err      string
}

func NewAudio(svc api.Service) *AudioController {
	return &AudioController{
		svc: svc,
		gate: newGate(func(f api.FileRef) bool {
			return strings.HasPrefix(f.ContentType, "audio/")
		}, "Please select a valid audio file"),
	}
}

// Select replaces the chosen recording, clearing any previous result.
func (c *AudioController) Select(f api.FileRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate.selectFile(f); err != nil {
		return err
	}
	c.summary = ""
	c.audioURL = ""
	return nil
}

// Upload sends the recording for transcription and response synthesis.
func (c *AudioController) Upload(ctx context.Context) error {
	c.mu.Lock()
	file, err := c.gate.beginUpload()
	if err == nil {
		// a fresh attempt never shows stale results
		c.summary = ""
		c.audioURL = ""
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}

	resp, err := c.svc.UploadAudio(ctx, file)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// fail closed: no partial summary or audio reference survives
		c.summary = ""
		c.audioURL = ""
		c.gate.failUpload(err.Error())
		return err
	}
	c.summary = resp.Summary
	if c.summary == "" {
		c.summary = "No summary available"
	}
	c.audioURL = resp.AudioURL
	c.gate.finishUpload()
	return nil
}

// Snapshot returns a copy of the current voice workflow state.
func (c *AudioController) Snapshot() AudioSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AudioSnapshot{
		State:    c.gate.state,
		File:     c.gate.file,
		Summary:  c.summary,
		AudioURL: c.audioURL,
		Err:      c.gate.err,
	}
}
