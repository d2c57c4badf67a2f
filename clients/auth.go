package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/utils"
)

// AuthError means the auth service's response could not be turned into a
// usable session: wrong credentials, no token, or no resolvable user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// AuthClient talks to the auth service. Its responses are the one backend
// surface without a stable shape: the token and user may be nested under one
// or two wrapper keys, and the email may only exist as the token's `sub`
// claim. normalizeAuthResponse is the single place that untangles this.
type AuthClient struct {
	http *resty.Client
}

func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{http: newRestyClient(baseURL, timeout)}
}

func (c *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	return c.postAuth(ctx, "/login", req)
}

func (c *AuthClient) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Session, error) {
	return c.postAuth(ctx, "/register/customer", req)
}

func (c *AuthClient) RegisterMerchant(ctx context.Context, req models.RegisterMerchantRequest) (*models.Session, error) {
	return c.postAuth(ctx, "/register/merchant", req)
}

func (c *AuthClient) postAuth(ctx context.Context, path string, body any) (*models.Session, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, &AuthError{Message: authFailureMessage(resp.Body(), resp.StatusCode())}
	}
	session, err := normalizeAuthResponse(resp.Body())
	if err != nil {
		return nil, err
	}
	utils.InspectToken(session.Token)
	return session, nil
}

func authFailureMessage(body []byte, status int) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("authentication failed with status %d", status)
}

// normalizeAuthResponse unwraps up to two levels of `data` wrapping, finds
// the token and user wherever the auth service put them, and falls back to
// the token's own claims when the body lacks user fields. A response that
// still has no token or no resolvable user after every fallback is a hard
// AuthError.
func normalizeAuthResponse(body []byte) (*models.Session, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &AuthError{Message: "malformed auth response: " + err.Error()}
	}

	node := payload
	for i := 0; i < 2; i++ {
		inner, ok := node["data"].(map[string]any)
		if !ok {
			break
		}
		node = inner
	}

	token, _ := node["token"].(string)
	if token == "" {
		return nil, &AuthError{Message: "no token in auth response"}
	}

	rawUser, ok := node["user"].(map[string]any)
	if !ok {
		// No nested user object: the fields may sit flat at the root.
		rawUser = node
	}

	user := models.User{
		UserID:   numberField(rawUser, "userId", "id"),
		Email:    stringField(rawUser, "email", "sub"),
		FullName: stringField(rawUser, "fullName", "full_name", "name"),
		Role:     models.Role(strings.ToUpper(stringField(rawUser, "role"))),
	}

	if user.Email == "" || user.UserID == 0 || user.Role == "" {
		fillUserFromClaims(&user, token)
	}
	if user.Email == "" && user.UserID == 0 {
		return nil, &AuthError{Message: "no user in auth response"}
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	session := &models.Session{Token: token, User: user}
	attachProfiles(session, node)
	return session, nil
}

func fillUserFromClaims(user *models.User, token string) {
	claims, err := utils.DecodeClaims(token)
	if err != nil {
		return
	}
	if user.Email == "" {
		if sub, _ := claims["sub"].(string); sub != "" {
			user.Email = sub
		} else if email, _ := claims["email"].(string); email != "" {
			user.Email = email
		}
	}
	if user.UserID == 0 {
		if id, ok := claims["userId"].(float64); ok {
			user.UserID = int64(id)
		} else if id, ok := claims["user_id"].(float64); ok {
			user.UserID = int64(id)
		}
	}
	if user.Role == "" {
		if role, _ := claims["role"].(string); role != "" {
			user.Role = models.Role(strings.ToUpper(role))
		}
	}
	if user.FullName == "" {
		user.FullName, _ = claims["fullName"].(string)
	}
}

// attachProfiles stores the role-matched profile when the body carries one.
// A profile for the other role is dropped: a MERCHANT session never carries a
// CustomerProfile and vice versa.
func attachProfiles(session *models.Session, node map[string]any) {
	if session.User.Role == models.RoleMerchant {
		if raw := mapField(node, "merchantProfile", "merchant_profile"); raw != nil {
			var profile models.MerchantProfile
			if remarshal(raw, &profile) == nil {
				session.MerchantProfile = &profile
			}
		}
		return
	}
	if raw := mapField(node, "customerProfile", "customer_profile"); raw != nil {
		var profile models.CustomerProfile
		if remarshal(raw, &profile) == nil {
			session.CustomerProfile = &profile
		}
	}
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func numberField(m map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			if v != 0 {
				return int64(v)
			}
		case string:
			var id int64
			if _, err := fmt.Sscanf(v, "%d", &id); err == nil && id != 0 {
				return id
			}
		}
	}
	return 0
}

func mapField(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := m[key].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func remarshal(raw map[string]any, out any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}
