// Package session owns the authenticated-identity state for the gateway:
// login, registration, logout, and hydration of persisted sessions.
package session

import (
	"context"
	"log"

	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/store"
)

// AuthAPI is the slice of the auth service client the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Session, error)
	RegisterMerchant(ctx context.Context, req models.RegisterMerchantRequest) (*models.Session, error)
}

type Manager struct {
	auth  AuthAPI
	store store.SessionStore
}

func NewManager(auth AuthAPI, sessions store.SessionStore) *Manager {
	return &Manager{auth: auth, store: sessions}
}

// Login authenticates against the auth service and persists the resulting
// session. Logout is purely local, but login is not complete until the
// session survives a restart, so a store failure fails the login.
func (m *Manager) Login(ctx context.Context, email, password string, role models.Role) (*models.Session, error) {
	session, err := m.auth.Login(ctx, models.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		return nil, err
	}
	return m.persist(ctx, session)
}

func (m *Manager) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Session, error) {
	session, err := m.auth.RegisterCustomer(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.persist(ctx, session)
}

func (m *Manager) RegisterMerchant(ctx context.Context, req models.RegisterMerchantRequest) (*models.Session, error) {
	session, err := m.auth.RegisterMerchant(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.persist(ctx, session)
}

func (m *Manager) persist(ctx context.Context, session *models.Session) (*models.Session, error) {
	enforceProfileInvariant(session)
	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// enforceProfileInvariant drops a profile that does not match the session's
// role. A MERCHANT session never carries a CustomerProfile and vice versa.
func enforceProfileInvariant(session *models.Session) {
	if session.IsMerchant() {
		session.CustomerProfile = nil
	} else {
		session.MerchantProfile = nil
	}
}

// Logout destroys the persisted session. There is no token revocation call
// on the auth service; logout is purely local.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// Hydrate restores a session for a bearer token. Missing, corrupt, or
// invalid entries mean "not authenticated" and never an error: a bad stored
// session must not take the gateway down.
func (m *Manager) Hydrate(ctx context.Context, token string) *models.Session {
	if token == "" {
		return nil
	}
	session, err := m.store.Load(ctx, token)
	if err != nil {
		log.Println("Session store error during hydration:", err)
		return nil
	}
	return session
}
