package workflow

import (
	"context"
	"sync/atomic"

	"omnidesk/internal/api"
)

// fakeService implements api.Service with overridable function fields and
// per-capability call counters.
type fakeService struct {
	chatFn        func(ctx context.Context, question, userID string) (api.Answer, error)
	uploadDocFn   func(ctx context.Context, file api.FileRef, userID string) (api.UploadAck, error)
	uploadAudioFn func(ctx context.Context, file api.FileRef) (api.VoiceResponse, error)
	uploadTableFn func(ctx context.Context, file api.FileRef) (api.UploadAck, error)
	queryTableFn  func(ctx context.Context, question string) (string, error)
	createEventFn func(ctx context.Context, req api.EventRequest) (api.EventConfirmation, error)

	chatCalls   atomic.Int64
	uploadCalls atomic.Int64
	queryCalls  atomic.Int64
	eventCalls  atomic.Int64
}

func (f *fakeService) Chat(ctx context.Context, question, userID string) (api.Answer, error) {
	f.chatCalls.Add(1)
	if f.chatFn != nil {
		return f.chatFn(ctx, question, userID)
	}
	return api.Answer{Kind: api.AnswerString, Text: "ok"}, nil
}

func (f *fakeService) UploadDocument(ctx context.Context, file api.FileRef, userID string) (api.UploadAck, error) {
	f.uploadCalls.Add(1)
	if f.uploadDocFn != nil {
		return f.uploadDocFn(ctx, file, userID)
	}
	return api.UploadAck{Message: "done"}, nil
}

func (f *fakeService) UploadAudio(ctx context.Context, file api.FileRef) (api.VoiceResponse, error) {
	f.uploadCalls.Add(1)
	if f.uploadAudioFn != nil {
		return f.uploadAudioFn(ctx, file)
	}
	return api.VoiceResponse{Summary: "summary", AudioURL: "http://example/audio.mp3"}, nil
}

func (f *fakeService) UploadTable(ctx context.Context, file api.FileRef) (api.UploadAck, error) {
	f.uploadCalls.Add(1)
	if f.uploadTableFn != nil {
		return f.uploadTableFn(ctx, file)
	}
	return api.UploadAck{}, nil
}

func (f *fakeService) QueryTable(ctx context.Context, question string) (string, error) {
	f.queryCalls.Add(1)
	if f.queryTableFn != nil {
		return f.queryTableFn(ctx, question)
	}
	return "answer", nil
}

func (f *fakeService) CreateEvent(ctx context.Context, req api.EventRequest) (api.EventConfirmation, error) {
	f.eventCalls.Add(1)
	if f.createEventFn != nil {
		return f.createEventFn(ctx, req)
	}
	return api.EventConfirmation{Success: true}, nil
}

func pdfRef(name string) api.FileRef {
	return api.FileRef{Path: "/tmp/" + name, Name: name, ContentType: "application/pdf", Size: 1024}
}

func csvRef(name string) api.FileRef {
	return api.FileRef{Path: "/tmp/" + name, Name: name, ContentType: "text/csv", Size: 256}
}

func audioRef(name string) api.FileRef {
	return api.FileRef{Path: "/tmp/" + name, Name: name, ContentType: "audio/mpeg", Size: 2048}
}

func textRef(name string) api.FileRef {
	return api.FileRef{Path: "/tmp/" + name, Name: name, ContentType: "text/plain", Size: 16}
}
