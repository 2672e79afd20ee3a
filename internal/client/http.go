// Package client talks to the users admin HTTP/JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
)

// DefaultTimeout bounds every request made by NewHTTPClient.
const DefaultTimeout = 15 * time.Second

// HTTPClient implements the list and mutation calls over the REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient targets baseURL (e.g. "http://localhost:8080"). When token is
// non-empty, an Authorization header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient swaps the transport, used by tests.
func (c *HTTPClient) WithHTTPClient(hc *http.Client) *HTTPClient {
	c.httpClient = hc
	return c
}

// CreateUserRequest is the body of a create call.
type CreateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
}

// UpdateUserRequest carries only the fields to change.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// DeleteUserResponse confirms a removal.
type DeleteUserResponse struct {
	Deleted bool        `json:"deleted"`
	Item    models.User `json:"item"`
}

// ListUsers runs one list query.
func (c *HTTPClient) ListUsers(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	var resp domain.ListResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/query", req, &resp); err != nil {
		return domain.ListResponse{}, err
	}
	if resp.Items == nil {
		resp.Items = []models.User{}
	}
	return resp, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", req, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), req, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) (DeleteUserResponse, error) {
	var resp DeleteUserResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return DeleteUserResponse{}, err
	}
	return resp, nil
}

// APIError represents an error response from the server. It unwraps to the
// matching domain error so callers can use domain.IsValidation and friends.
type APIError struct {
	StatusCode int
	Code       string
	Field      string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("HTTP %d %s (%s): %s", e.StatusCode, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return domain.ValidationError{Field: e.Field, Code: e.Code, Msg: e.Message}
	case e.StatusCode == http.StatusNotFound:
		return domain.NotFoundError{Resource: "user"}
	case e.StatusCode == http.StatusConflict:
		return domain.ConflictError{Msg: e.Message}
	case e.Code == "STORE_ERROR":
		return domain.StoreError{Op: "remote", Err: fmt.Errorf("%s", e.Message)}
	case e.StatusCode >= 500:
		return domain.InternalError{Msg: e.Message}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error     string `json:"error"`
			Code      string `json:"code"`
			Field     string `json:"field"`
			RequestID string `json:"request_id"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       errResp.Code,
				Field:      errResp.Field,
				Message:    errResp.Error,
				RequestID:  errResp.RequestID,
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
