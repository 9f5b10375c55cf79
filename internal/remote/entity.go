package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/nhle/flowboard/internal/model"
)

// entityPaths maps logical entity names to their REST path segment.
var entityPaths = map[string]string{
	"User":                "users",
	"Project":             "projects",
	"Task":                "tasks",
	"Comment":             "comments",
	"TimeEntry":           "time-entries",
	"Notification":        "notifications",
	"Achievement":         "achievements",
	"Challenge":           "challenges",
	"ChallengeSubmission": "challenge-submissions",
}

// PathFor returns the REST path segment of an entity. Unknown names are
// kebab-cased and pluralized.
func PathFor(entity string) string {
	if p, ok := entityPaths[entity]; ok {
		return p
	}

	var b strings.Builder
	for i, r := range entity {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String() + "s"
}

// Entity is the REST resource of one collection. The same implementation
// serves every collection, parameterized by path and record type.
type Entity[T any] struct {
	c    *Client
	path string
}

// NewEntity returns the resource rooted at /{path}.
func NewEntity[T any](c *Client, path string) *Entity[T] {
	return &Entity[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

// Path returns the resource path, e.g. "/tasks".
func (e *Entity[T]) Path() string {
	return e.path
}

// List fetches every record, passing orderBy through as a query parameter.
func (e *Entity[T]) List(ctx context.Context, orderBy string) ([]T, error) {
	q := url.Values{}
	if orderBy != "" {
		q.Set("orderBy", orderBy)
	}

	env, err := e.c.call(ctx, request{method: http.MethodGet, path: e.path, query: q})
	if err != nil {
		return nil, err
	}
	return decodeList[T](env)
}

// Get fetches a single record. A null payload yields nil.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	env, err := e.c.call(ctx, request{method: http.MethodGet, path: e.itemPath(id)})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Create posts a new record and returns the stored one.
func (e *Entity[T]) Create(ctx context.Context, data any) (*T, error) {
	env, err := e.c.call(ctx, request{method: http.MethodPost, path: e.path, body: data})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Update puts a patch and returns the updated record.
func (e *Entity[T]) Update(ctx context.Context, id string, patch any) (*T, error) {
	env, err := e.c.call(ctx, request{method: http.MethodPut, path: e.itemPath(id), body: patch})
	if err != nil {
		return nil, err
	}
	return decodeOne[T](env)
}

// Delete removes a record and returns the server's success indicator.
func (e *Entity[T]) Delete(ctx context.Context, id string) (Envelope, error) {
	return e.c.call(ctx, request{method: http.MethodDelete, path: e.itemPath(id)})
}

// Filter asks the server for records equal to every where field. where is
// flattened into query parameters; limit is sent only when positive.
func (e *Entity[T]) Filter(
	ctx context.Context,
	where model.Where,
	orderBy string,
	limit int,
) ([]T, error) {
	normalized, err := model.NormalizeWhere(where)
	if err != nil {
		return nil, fmt.Errorf("encoding filter for %s: %w", e.path, err)
	}

	q := FlattenWhere(normalized)
	if orderBy != "" {
		q.Set("orderBy", orderBy)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	env, err := e.c.call(ctx, request{method: http.MethodGet, path: e.path + "/filter", query: q})
	if err != nil {
		return nil, err
	}
	return decodeList[T](env)
}

func (e *Entity[T]) itemPath(id string) string {
	return e.path + "/" + url.PathEscape(id)
}

// FlattenWhere renders JSON-normalized filter values as query parameters.
// Null values are omitted; arrays and objects are sent as JSON.
func FlattenWhere(where model.Where) url.Values {
	q := url.Values{}
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := where[k]
		if v == nil {
			continue
		}
		q.Set(k, queryValue(v))
	}
	return q
}

func queryValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}

// decodeList decodes a list payload. When a record carries a value that
// does not fit T, the list is decoded again record by record and the
// offending fields are dropped.
func decodeList[T any](env Envelope) ([]T, error) {
	out := []T{}
	err := env.Decode(&out)
	if err != nil {
		var records []model.Record
		if env.Decode(&records) != nil {
			return nil, err
		}
		return model.DecodeAll[T](records)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeOne[T any](env Envelope) (*T, error) {
	if !env.HasData() {
		return nil, nil
	}
	var out T
	if err := env.Decode(&out); err != nil {
		var rec model.Record
		if env.Decode(&rec) != nil || rec == nil {
			return nil, err
		}
		return model.Decode[T](rec)
	}
	return &out, nil
}
