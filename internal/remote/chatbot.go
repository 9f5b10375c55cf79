package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nhle/flowboard/internal/model"
)

// SendChatMessage posts a message to the assistant with optional page context.
func (c *Client) SendChatMessage(
	ctx context.Context,
	message string,
	chatContext map[string]any,
) (Envelope, error) {
	if chatContext == nil {
		chatContext = map[string]any{}
	}
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/chatbot/message",
		body: map[string]any{
			"message": message,
			"context": chatContext,
		},
	})
}

// ChatHistory fetches a user's past exchanges with the assistant.
func (c *Client) ChatHistory(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/chatbot/history/" + url.PathEscape(userID),
	})
	if err != nil {
		return nil, err
	}
	return decodeList[model.ChatMessage](env)
}
