// Package session resolves who is signed in and which screen they land on.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/vetcart/internal/clinic"
	"github.com/fjod/vetcart/internal/domain"
	"go.uber.org/zap"
)

type Route string

const (
	RouteLogin        Route = "/login"
	RouteOwnerHome    Route = "/owner"
	RouteVetHome      Route = "/veterinarian"
	RouteEmployeeHome Route = "/employee"
	RouteAdminHome    Route = "/admin"
)

var ErrShopNotAllowed = errors.New("role is not allowed to use the shop")

// HomeRoute returns the landing route for a role. Unknown roles go to login.
func HomeRoute(role domain.Role) Route {
	switch role {
	case domain.RoleOwner:
		return RouteOwnerHome
	case domain.RoleVeterinarian:
		return RouteVetHome
	case domain.RoleEmployee:
		return RouteEmployeeHome
	case domain.RoleAdmin:
		return RouteAdminHome
	default:
		return RouteLogin
	}
}

// Session is the resolved sign-in state. User is nil for anonymous sessions.
type Session struct {
	User  *domain.User
	Route Route
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.User.Role != domain.RoleUnknown
}

// CanShop reports whether the user may fill a cart: pet owners buy for their
// animals and employees sell at the counter.
func (s Session) CanShop() bool {
	if !s.Authenticated() {
		return false
	}
	return s.User.Role == domain.RoleOwner || s.User.Role == domain.RoleEmployee
}

// Authenticator is the part of the clinic client the guard depends on.
type Authenticator interface {
	Me(ctx context.Context) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
}

type Guard struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewGuard(auth Authenticator, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{auth: auth, logger: logger}
}

// Resolve fetches the current user and picks the landing route.
// A missing or expired session yields an anonymous Session routed to login.
func (g *Guard) Resolve(ctx context.Context) (Session, error) {
	user, err := g.auth.Me(ctx)
	if errors.Is(err, clinic.ErrUnauthorized) {
		g.logger.Debug("no active session")
		return Session{Route: RouteLogin}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to resolve session: %w", err)
	}
	return g.sessionFor(user), nil
}

func (g *Guard) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return Session{Route: RouteLogin}, fmt.Errorf("login failed: %w", err)
	}
	return g.sessionFor(user), nil
}

func (g *Guard) Logout(ctx context.Context) (Session, error) {
	if err := g.auth.Logout(ctx); err != nil && !errors.Is(err, clinic.ErrUnauthorized) {
		return Session{}, fmt.Errorf("logout failed: %w", err)
	}
	return Session{Route: RouteLogin}, nil
}

// RequireShopper resolves the session and rejects users who cannot shop.
func (g *Guard) RequireShopper(ctx context.Context) (Session, error) {
	sess, err := g.Resolve(ctx)
	if err != nil {
		return sess, err
	}
	if !sess.Authenticated() {
		return sess, clinic.ErrUnauthorized
	}
	if !sess.CanShop() {
		return sess, fmt.Errorf("%s: %w", sess.User.Role, ErrShopNotAllowed)
	}
	return sess, nil
}

func (g *Guard) sessionFor(user *domain.User) Session {
	route := HomeRoute(user.Role)
	if route == RouteLogin {
		g.logger.Warn("user has unknown role", zap.String("user_id", user.ID))
		return Session{Route: RouteLogin}
	}
	g.logger.Debug("session resolved",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role.String()),
		zap.String("route", string(route)))
	return Session{User: user, Route: route}
}
