package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// TokenSource supplies the bearer token for requests to the task service.
// The account client is the usual implementation.
type TokenSource interface {
	Token() string
}

// HTTPStore talks JSON to the remote task document service. The service
// filters by owner server-side; the task service on top re-checks anyway.
type HTTPStore struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewHTTPStore(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type taskListResponse struct {
	Tasks []models.Task `json:"tasks"`
}

func (s *HTTPStore) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	path := "/api/v1/tasks?owner_id=" + url.QueryEscape(ownerID)

	var resp taskListResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (s *HTTPStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *HTTPStore) Create(ctx context.Context, title, ownerID string) (*models.Task, error) {
	body := map[string]string{"title": title, "owner_id": ownerID}

	var task models.Task
	if err := s.do(ctx, http.MethodPost, "/api/v1/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *HTTPStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := s.do(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.tokens != nil {
		req.Header.Set("Authorization", "Bearer "+s.tokens.Token())
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrorUnauthorized
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: task service returned %d", common.ErrorStorage, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", common.ErrorStorage, err)
		}
	}
	return nil
}
