package surreal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nfrund/flavorfusion/internal/database"
	"github.com/nfrund/flavorfusion/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

type userRow struct {
	ID    *models.RecordID `json:"id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Role  string           `json:"role"`
}

func (r userRow) toDomain() *domain.User {
	role := domain.RoleStandard
	if strings.EqualFold(r.Role, string(domain.RoleAdmin)) {
		role = domain.RoleAdmin
	}
	return &domain.User{
		ID:    recordString(r.ID),
		Name:  r.Name,
		Email: r.Email,
		Role:  role,
	}
}

func (g *Gateway) accessParams(extra map[string]any) map[string]any {
	params := map[string]any{
		"ns": g.cfg.Namespace,
		"db": g.cfg.Database,
		"ac": accessMethod,
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

// Authenticate implements domain.Gateway.
func (g *Gateway) Authenticate(ctx context.Context, email, password string) error {
	return g.withConn(ctx, func(db *surrealdb.DB) error {
		token, err := db.SignIn(ctx, g.accessParams(map[string]any{
			"email":    email,
			"password": password,
		}))
		if err != nil {
			if database.IsConnectionError(err) {
				return fmt.Errorf("%w: signin: %v", domain.ErrNetwork, err)
			}
			g.logger.DebugContext(ctx, "Sign in rejected", "email", email, "error", err)
			return fmt.Errorf("signin: %w", domain.ErrInvalidCredentials)
		}
		g.token = token
		g.authedAs = token
		return nil
	})
}

// Register implements domain.Gateway. Signing up authenticates the
// connection as the new account, so the previous auth state is restored
// before returning.
func (g *Gateway) Register(ctx context.Context, name, email, password string) error {
	return g.withConn(ctx, func(db *surrealdb.DB) error {
		_, err := db.SignUp(ctx, g.accessParams(map[string]any{
			"name":     name,
			"email":    email,
			"password": password,
		}))
		if err != nil {
			switch {
			case database.IsConnectionError(err):
				return fmt.Errorf("%w: signup: %v", domain.ErrNetwork, err)
			case database.IsAlreadyExists(err):
				return fmt.Errorf("signup: %w", domain.ErrDuplicateAccount)
			default:
				return signupValidationError(err)
			}
		}

		if invErr := db.Invalidate(ctx); invErr != nil {
			g.logger.WarnContext(ctx, "Failed to reset connection after sign up", "error", invErr)
		}
		g.authedAs = ""
		return nil
	})
}

func signupValidationError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "email") {
		return domain.NewValidationError("email", "Please enter a valid email address.")
	}
	return &domain.ValidationError{Message: "The account could not be created."}
}

// Identity implements domain.Gateway.
func (g *Gateway) Identity(ctx context.Context) (*domain.User, error) {
	var user *domain.User
	err := g.withConn(ctx, func(db *surrealdb.DB) error {
		if g.token == "" {
			return domain.ErrUnauthenticated
		}
		row, err := database.QueryOne[userRow](ctx, db, "SELECT id, name, email, role FROM $auth", nil)
		if err != nil {
			return err
		}
		if row == nil || row.ID == nil {
			return domain.ErrUnauthenticated
		}
		user = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// TerminateSession implements domain.Gateway. The token is forgotten even
// when the server cannot be told.
func (g *Gateway) TerminateSession(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.token = ""
	if g.db == nil || g.authedAs == "" {
		return nil
	}
	g.authedAs = ""
	if err := g.db.Invalidate(ctx); err != nil {
		g.dropLocked(ctx)
		return errors.Join(domain.ErrNetwork, err)
	}
	return nil
}
