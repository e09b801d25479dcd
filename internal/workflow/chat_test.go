package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"omnidesk/internal/api"
)

func TestChatSendAppendsBothSides(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
			require.Equal(t, "hello there", question)
			require.Equal(t, "user-1", userID)
			return api.Answer{Kind: api.AnswerString, Text: "hello"}, nil
		},
	}
	chat := NewChat(svc, "user-1")

	require.NoError(t, chat.Send(context.Background(), "hello there"))

	snap := chat.Snapshot()
	require.False(t, snap.Sending)
	require.Empty(t, snap.Err)
	require.Len(t, snap.Messages, 2)
	require.Equal(t, SenderUser, snap.Messages[0].Sender)
	require.Equal(t, "hello there", snap.Messages[0].Text)
	require.Equal(t, SenderAssistant, snap.Messages[1].Sender)
	require.Equal(t, "hello", snap.Messages[1].Text)
}

func TestChatAnswerNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		answer api.Answer
		want   string
	}{
		{"plain string", api.Answer{Kind: api.AnswerString, Text: "hello"}, "hello"},
		{"result field", api.Answer{Kind: api.AnswerResult, Text: "x"}, "x"},
		{"null", api.Answer{Kind: api.AnswerOther}, fallbackNotice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{
				chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
					return tc.answer, nil
				},
			}
			chat := NewChat(svc, "u")
			require.NoError(t, chat.Send(context.Background(), "q"))
			msgs := chat.Snapshot().Messages
			require.Equal(t, tc.want, msgs[len(msgs)-1].Text)
		})
	}

	t.Run("arbitrary object dumped", func(t *testing.T) {
		svc := &fakeService{
			chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
				return api.Answer{Kind: api.AnswerObject, Raw: json.RawMessage(`{"foo":1}`)}, nil
			},
		}
		chat := NewChat(svc, "u")
		require.NoError(t, chat.Send(context.Background(), "q"))
		msgs := chat.Snapshot().Messages
		require.Contains(t, msgs[len(msgs)-1].Text, "foo")
		require.Contains(t, msgs[len(msgs)-1].Text, "1")
	})
}

func TestChatRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	chat := NewChat(svc, "u")

	err := chat.Send(context.Background(), "   \n\t")
	require.True(t, IsValidation(err))
	require.Empty(t, chat.Snapshot().Messages)
	require.Zero(t, svc.chatCalls.Load())
}

func TestChatFailureKeepsOptimisticMessage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
			return api.Answer{}, &api.TransportError{Message: "service unavailable"}
		},
	}
	chat := NewChat(svc, "u")

	err := chat.Send(context.Background(), "question")
	require.Error(t, err)

	snap := chat.Snapshot()
	require.Equal(t, "service unavailable", snap.Err)
	require.Len(t, snap.Messages, 1)
	require.Equal(t, SenderUser, snap.Messages[0].Sender)

	// a later successful turn clears the surfaced error
	svc.chatFn = nil
	require.NoError(t, chat.Send(context.Background(), "again"))
	require.Empty(t, chat.Snapshot().Err)
}

func TestChatRejectsSendWhileSending(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
			close(started)
			<-release
			return api.Answer{Kind: api.AnswerString, Text: "late"}, nil
		},
	}
	chat := NewChat(svc, "u")

	done := make(chan error, 1)
	go func() { done <- chat.Send(context.Background(), "first") }()
	<-started

	err := chat.Send(context.Background(), "second")
	require.ErrorIs(t, err, ErrBusy)
	require.Len(t, chat.Snapshot().Messages, 1)

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, int64(1), svc.chatCalls.Load())
}

func TestChatIdenticalMessagesStayDistinct(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	chat := NewChat(svc, "u")

	require.NoError(t, chat.Send(context.Background(), "same text"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, chat.Send(context.Background(), "same text"))

	msgs := chat.Snapshot().Messages
	require.Len(t, msgs, 4)
	require.NotEqual(t, msgs[0].ID, msgs[2].ID)
	require.True(t, msgs[0].ID < msgs[2].ID, "ids must be ordered by creation")
	require.False(t, msgs[2].Timestamp.Before(msgs[0].Timestamp))
}

func TestChatLogIsAppendOnly(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		chatFn: func(ctx context.Context, question, userID string) (api.Answer, error) {
			if question == "fail" {
				return api.Answer{}, errors.New("boom")
			}
			return api.Answer{Kind: api.AnswerString, Text: "ok"}, nil
		},
	}
	chat := NewChat(svc, "u")

	require.NoError(t, chat.Send(context.Background(), "one"))
	require.Error(t, chat.Send(context.Background(), "fail"))
	require.NoError(t, chat.Send(context.Background(), "two"))

	msgs := chat.Snapshot().Messages
	require.Len(t, msgs, 5) // 3 user + 2 assistant; no rollback of "fail"
	require.Equal(t, "fail", msgs[2].Text)
}
