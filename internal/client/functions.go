package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nhle/flowboard/internal/model"
	"github.com/nhle/flowboard/internal/remote"
)

// FunctionGenerateReport is the name Invoke recognizes for GenerateReport.
const FunctionGenerateReport = "generateReport"

const (
	defaultReportUser     = "local-user"
	defaultReportLanguage = "fa"
)

// FunctionHandler implements a named function for Invoke.
type FunctionHandler func(ctx context.Context, payload map[string]any) (remote.Envelope, error)

// Functions runs server-side operations that are not plain CRUD.
type Functions struct {
	c *Client

	mu       sync.RWMutex
	handlers map[string]FunctionHandler
}

func newFunctions(c *Client) *Functions {
	return &Functions{c: c, handlers: make(map[string]FunctionHandler)}
}

// Register adds a named function dispatched by Invoke. A later
// registration under the same name replaces the earlier one.
func (f *Functions) Register(name string, h FunctionHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
}

// TransitionTaskStatus moves a task to status. An empty taskID is reported
// as an unsuccessful result and mutates nothing.
func (f *Functions) TransitionTaskStatus(ctx context.Context, taskID, status string) (remote.Envelope, error) {
	return attempt(ctx, f.c, model.CollectionTasks, "transitionTaskStatus", transitionLatency,
		func(r *remote.Client) (remote.Envelope, error) {
			return r.TransitionTaskStatus(ctx, taskID, status)
		},
		func() (remote.Envelope, error) {
			if taskID == "" {
				return remote.Envelope{Success: false}, nil
			}
			if _, err := f.c.Entities.Task.Update(ctx, taskID, model.Patch{"status": status}); err != nil {
				return remote.Envelope{}, err
			}
			return remote.Envelope{Success: true}, nil
		},
	)
}

// GenerateReport produces a report for the user. The backend returns a
// downloadable file; the local fallback returns placeholder text.
func (f *Functions) GenerateReport(ctx context.Context, userID, language string) (*remote.Blob, error) {
	return attempt(ctx, f.c, "functions", FunctionGenerateReport, reportLatency,
		func(r *remote.Client) (*remote.Blob, error) {
			return r.GenerateReport(ctx, userID, language)
		},
		func() (*remote.Blob, error) {
			if userID == "" {
				userID = defaultReportUser
			}
			if language == "" {
				language = defaultReportLanguage
			}
			return &remote.Blob{
				Data:        []byte(fmt.Sprintf("Mock report for user: %s (%s)", userID, language)),
				ContentType: "text/plain; charset=utf-8",
			}, nil
		},
	)
}

// Invoke dispatches a function by name: registered handlers first, then
// generateReport, then a generic acknowledgement.
func (f *Functions) Invoke(ctx context.Context, name string, payload map[string]any) (remote.Envelope, error) {
	f.mu.RLock()
	h, ok := f.handlers[name]
	f.mu.RUnlock()
	if ok {
		return h(ctx, payload)
	}

	if name == FunctionGenerateReport {
		userID, _ := payload["user_id"].(string)
		language, _ := payload["language"].(string)
		blob, err := f.GenerateReport(ctx, userID, language)
		if err != nil {
			return remote.Envelope{}, err
		}
		if strings.HasPrefix(blob.ContentType, "text/") {
			return envelopeOf(string(blob.Data))
		}
		return envelopeOf(blob.Data)
	}

	if err := f.c.pause(ctx, defaultLatency); err != nil {
		return remote.Envelope{}, err
	}
	return envelopeOf(fmt.Sprintf("Mock function '%s' executed locally.", name))
}
