package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeClaims extracts the claims from a bearer token without verifying the
// signature. The auth service owns the signing secret; the gateway only needs
// the payload, as a fallback when a login response omits the user fields.
func DecodeClaims(tokenString string) (jwt.MapClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return claims, nil
}

// InspectToken logs the interesting claims of a token. Debug aid for auth
// issues between the gateway and the backends.
func InspectToken(tokenString string) {
	claims, err := DecodeClaims(tokenString)
	if err != nil {
		log.Println("Token inspection failed:", err)
		return
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	log.Printf("Token claims: sub=%s role=%s userId=%v", sub, role, claims["userId"])
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if time.Now().After(exp.Time) {
			log.Printf("Token expired at %s", exp.Time.Format(time.RFC3339))
		}
	}
}
