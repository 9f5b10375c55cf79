package client_test

import (
	"context"
	"testing"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/store"
	"github.com/nhle/flowboard/tests/testutil"
)

func TestChatbotRecordsLocalExchanges(t *testing.T) {
	c := newMockClient(t, testutil.NewSeededStore(t, testNow))
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		env, err := c.Chatbot.SendMessage(ctx, text, map[string]any{"page": "board"})
		if err != nil || !env.Success {
			t.Fatalf("send %q: %+v (err %v)", text, env, err)
		}
	}

	history, err := c.Chatbot.History(ctx, store.DemoUserID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected two messages, got %d", len(history))
	}
	if history[0].Message != "second" || history[1].Message != "first" {
		t.Fatalf("expected newest first, got %q then %q", history[0].Message, history[1].Message)
	}
	if history[0].Response == "" || history[0].Context["page"] != "board" {
		t.Fatalf("unexpected stored exchange %+v", history[0])
	}

	others, _ := c.Chatbot.History(ctx, "someone-else")
	if len(others) != 0 {
		t.Fatalf("expected no history for another user, got %d", len(others))
	}
}

func TestChatbotUsesRemoteWhenAvailable(t *testing.T) {
	f := newRemoteFixture(t)
	f.backend.JSON("POST", "/chatbot/message", 200, map[string]any{"success": true, "data": map[string]any{"response": "hi"}})

	env, err := f.client.Chatbot.SendMessage(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	var reply struct{ Response string }
	env.Decode(&reply)
	if reply.Response != "hi" {
		t.Fatalf("expected remote reply, got %s", env.Data)
	}

	stored, _ := f.store.List(context.Background(), model.CollectionChatMessages, "")
	if len(stored) != 0 {
		t.Fatalf("remote success must not record locally")
	}
}
