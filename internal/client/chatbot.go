package client

import (
	"context"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
)

const mockChatReply = "This is a mock response. Please configure an API base URL " +
	"to talk to the assistant."

// Chatbot talks to the in-app assistant.
type Chatbot struct {
	c *Client
}

// SendMessage sends message with optional page context. Locally it answers
// with a canned reply and records the exchange for the current user.
func (b *Chatbot) SendMessage(
	ctx context.Context,
	message string,
	chatContext map[string]any,
) (remote.Envelope, error) {
	return attempt(ctx, b.c, model.CollectionChatMessages, "sendMessage", llmLatency,
		func(r *remote.Client) (remote.Envelope, error) {
			return r.SendChatMessage(ctx, message, chatContext)
		},
		func() (remote.Envelope, error) {
			userID := defaultReportUser
			me, err := b.c.Auth.current(ctx)
			if err != nil {
				return remote.Envelope{}, err
			}
			if me != nil {
				userID = me.ID
			}

			msg := model.ChatMessage{
				UserID:   userID,
				Message:  message,
				Response: mockChatReply,
				Context:  chatContext,
			}
			msg.ApplyDefaults(b.c.now())

			rec, err := model.ToRecord(msg)
			if err != nil {
				return remote.Envelope{}, err
			}
			stored, err := b.c.store.Create(ctx, model.CollectionChatMessages, rec)
			if err != nil {
				return remote.Envelope{}, err
			}
			return envelopeOf(stored)
		},
	)
}

// History returns the user's exchanges with the assistant, newest first.
func (b *Chatbot) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	return attempt(ctx, b.c, model.CollectionChatMessages, "history", defaultLatency,
		func(r *remote.Client) ([]model.ChatMessage, error) {
			return r.ChatHistory(ctx, userID)
		},
		func() ([]model.ChatMessage, error) {
			records, err := b.c.store.Filter(ctx, model.CollectionChatMessages,
				model.Where{"user_id": userID}, "-created_date", 0)
			if err != nil {
				return nil, err
			}
			return decodeRecords[model.ChatMessage](b.c, model.CollectionChatMessages, records)
		},
	)
}
