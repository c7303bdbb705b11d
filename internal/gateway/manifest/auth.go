package manifest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/tidwall/gjson"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Authenticate implements domain.Gateway. On success the returned token
// becomes the session credential.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/"+userEntity+"/login", credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	if !resp.ok() {
		err := statusError("login", resp)
		if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrValidation) || resp.status == http.StatusNotFound {
			return fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return err
	}

	token := gjson.GetBytes(resp.body, "token").String()
	if token == "" {
		return errors.New("login: response carried no token")
	}
	c.SetToken(token)
	return nil
}

// Register implements domain.Gateway. The token the backend issues on signup
// is discarded; callers log in explicitly afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/"+userEntity+"/signup", credentials{Email: email, Password: password, Name: name})
	if err != nil {
		return err
	}
	if resp.ok() {
		return nil
	}
	if resp.status == http.StatusConflict || mentionsExistingAccount(resp.body) {
		return fmt.Errorf("signup: %w", domain.ErrDuplicateAccount)
	}
	return statusError("signup", resp)
}

func mentionsExistingAccount(body []byte) bool {
	for _, m := range errorMessages(body) {
		if strings.Contains(strings.ToLower(m), "already") {
			return true
		}
	}
	return false
}

// Identity implements domain.Gateway.
func (c *Client) Identity(ctx context.Context) (*domain.User, error) {
	if c.Token() == "" {
		return nil, domain.ErrUnauthenticated
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/"+userEntity+"/me", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError("identity", resp)
	}
	return parseUser(gjson.ParseBytes(resp.body)), nil
}

// TerminateSession implements domain.Gateway. The backend keeps no server-side
// session for bearer tokens, so dropping the token is the whole operation.
func (c *Client) TerminateSession(ctx context.Context) error {
	c.SetToken("")
	return nil
}

func parseUser(r gjson.Result) *domain.User {
	role := domain.RoleStandard
	if strings.EqualFold(r.Get("role").String(), string(domain.RoleAdmin)) || r.Get("isAdmin").Bool() {
		role = domain.RoleAdmin
	}
	return &domain.User{
		ID:    r.Get("id").String(),
		Name:  r.Get("name").String(),
		Email: r.Get("email").String(),
		Role:  role,
	}
}
