package workflow

import "omnidesk/internal/api"

// UploadState is the position of an upload-gated workflow.
type UploadState string

const (
	StateEmpty     UploadState = "empty"
	StateSelected  UploadState = "selected"
	StateUploading UploadState = "uploading"
	StateReady     UploadState = "ready"
)

// gate is the select/upload state machine shared by the document, voice and
// table workflows. They differ only in the acceptance predicate and in what
// they do with the upload result, so those stay with the owning controller.
// The gate itself is not locked; each controller serializes access.
type gate struct {
	state      UploadState
	file       api.FileRef
	err        string
	accepts    func(api.FileRef) bool
	invalidMsg string
}

func newGate(accepts func(api.FileRef) bool, invalidMsg string) gate {
	return gate{state: StateEmpty, accepts: accepts, invalidMsg: invalidMsg}
}

// selectFile replaces the gated file. An unacceptable file type is rejected
// without touching the current selection or state.
func (g *gate) selectFile(f api.FileRef) error {
	if g.state == StateUploading {
		return ErrBusy
	}
	if !g.accepts(f) {
		g.err = g.invalidMsg
		return validationErr(g.invalidMsg)
	}
	g.file = f
	g.state = StateSelected
	g.err = ""
	return nil
}

// beginUpload flips the gate to uploading and hands back the file to send.
func (g *gate) beginUpload() (api.FileRef, error) {
	switch g.state {
	case StateUploading:
		return api.FileRef{}, ErrBusy
	case StateSelected:
		g.state = StateUploading
		g.err = ""
		return g.file, nil
	default:
		msg := "Please select a file first"
		g.err = msg
		return api.FileRef{}, validationErr(msg)
	}
}

// finishUpload records a completed upload.
func (g *gate) finishUpload() {
	g.state = StateReady
	g.err = ""
}

// failUpload returns to selected with the file retained, so the user can
// retry without reselecting.
func (g *gate) failUpload(msg string) {
	g.state = StateSelected
	g.err = msg
}
