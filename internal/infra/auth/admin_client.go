package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/leadzone/internal/entity"
)

const usersPageSize = 100

// AdminClient talks to the hosted auth service with the service-role key.
type AdminClient struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewAdminClient(baseURL, serviceKey string, timeout time.Duration) *AdminClient {
	return &AdminClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
	}
}

type userRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type listUsersResponse struct {
	Users []userRecord `json:"users"`
}

type errorResponse struct {
	Code      any    `json:"code"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"msg"`
}

// FindUserByEmail walks the admin user listing page by page. Emails compare
// case-insensitively.
func (c *AdminClient) FindUserByEmail(ctx context.Context, email string) (*entity.DirectoryUser, error) {
	for page := 1; ; page++ {
		users, err := c.listUsers(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				return &entity.DirectoryUser{ID: u.ID, Email: u.Email}, nil
			}
		}
		if len(users) < usersPageSize {
			return nil, entity.ErrNotFound
		}
	}
}

func (c *AdminClient) listUsers(ctx context.Context, page int) ([]userRecord, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(usersPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/admin/users?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list users request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list users failed (status %d): %s", resp.StatusCode, body)
	}

	var out listUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out.Users, nil
}

// SignOut revokes the session behind accessToken. A session the service no
// longer knows about comes back as entity.ErrSessionNotFound.
func (c *AdminClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)
	if resp.StatusCode == http.StatusNotFound || apiErr.ErrorCode == "session_not_found" {
		return entity.ErrSessionNotFound
	}
	return fmt.Errorf("logout failed (status %d): %s", resp.StatusCode, body)
}

func (c *AdminClient) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}
