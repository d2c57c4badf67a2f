package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/storefront-gateway/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestNormalizeFlatTokenAndUser(t *testing.T) {
	body := []byte(`{"token":"tok-1","user":{"userId":42,"email":"jo@example.com","fullName":"Jo","role":"CUSTOMER"}}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, int64(42), session.User.UserID)
	assert.Equal(t, "jo@example.com", session.User.Email)
	assert.Equal(t, models.RoleCustomer, session.User.Role)
}

func TestNormalizeDoubleWrappedData(t *testing.T) {
	body := []byte(`{"success":true,"data":{"data":{"token":"tok-2","user":{"userId":7,"email":"m@example.com","role":"merchant"},"merchantProfile":{"businessName":"Acme","businessAddress":"12 High St","gstNumber":"GST-9"}}}}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", session.Token)
	assert.Equal(t, models.RoleMerchant, session.User.Role)
	require.NotNil(t, session.MerchantProfile)
	assert.Equal(t, "Acme", session.MerchantProfile.BusinessName)
	assert.Nil(t, session.CustomerProfile)
}

func TestNormalizeFlatFieldsWithoutUserObject(t *testing.T) {
	body := []byte(`{"data":{"token":"tok-3","userId":5,"email":"flat@example.com","role":"CUSTOMER"}}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Equal(t, int64(5), session.User.UserID)
	assert.Equal(t, "flat@example.com", session.User.Email)
}

func TestNormalizeFallsBackToTokenClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":    "claims@example.com",
		"userId": float64(91),
		"role":   "merchant",
	})
	body := []byte(`{"token":"` + token + `"}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "claims@example.com", session.User.Email)
	assert.Equal(t, int64(91), session.User.UserID)
	assert.Equal(t, models.RoleMerchant, session.User.Role)
}

func TestNormalizeDefaultsRoleToCustomer(t *testing.T) {
	body := []byte(`{"token":"tok-4","user":{"userId":3,"email":"norole@example.com"}}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, session.User.Role)
}

func TestNormalizeMissingToken(t *testing.T) {
	_, err := normalizeAuthResponse([]byte(`{"user":{"userId":1,"email":"a@b.c"}}`))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestNormalizeUnresolvableUser(t *testing.T) {
	// Opaque token, no decodable claims, no user fields anywhere.
	_, err := normalizeAuthResponse([]byte(`{"token":"not-a-jwt"}`))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestNormalizeDropsMismatchedProfile(t *testing.T) {
	body := []byte(`{"token":"tok-5","user":{"userId":8,"email":"c@example.com","role":"MERCHANT"},"customerProfile":{"address":"nowhere"}}`)

	session, err := normalizeAuthResponse(body)
	require.NoError(t, err)
	assert.Nil(t, session.CustomerProfile)
}

func TestLoginFailurePropagatesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, time.Second)
	_, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "nope"})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid credentials", authErr.Message)
}

func TestLoginSuccessEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"token":"tok-9","user":{"userId":12,"email":"e2e@example.com","role":"CUSTOMER"}}}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, time.Second)
	session, err := client.Login(context.Background(), models.LoginRequest{Email: "e2e@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, session.IsCustomer())
}
