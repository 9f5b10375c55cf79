package remote

import (
	"context"
	"net/http"
)

// Blob is a binary response such as a generated report.
type Blob struct {
	Data        []byte
	ContentType string
}

// TransitionTaskStatus asks the server to move a task to a new status.
func (c *Client) TransitionTaskStatus(ctx context.Context, taskID, status string) (Envelope, error) {
	return c.call(ctx, request{
		method: http.MethodPost,
		path:   "/functions/transition-task-status",
		body: map[string]string{
			"taskId": taskID,
			"status": status,
		},
	})
}

// GenerateReport downloads a report for the user as a binary blob.
func (c *Client) GenerateReport(ctx context.Context, userID, language string) (*Blob, error) {
	resp, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/functions/generate-report",
		body: map[string]string{
			"user_id":  userID,
			"language": language,
		},
		accept: "*/*",
	})
	if err != nil {
		return nil, err
	}
	return &Blob{
		Data:        resp.body,
		ContentType: resp.header.Get("Content-Type"),
	}, nil
}
