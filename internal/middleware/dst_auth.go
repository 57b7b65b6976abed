package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/handler/api"
	"github.com/golang-jwt/jwt/v4"
)

const (
	dstIssuer   = "core"
	dstAudience = "converter"
	// tolerated clock drift on iat
	dstIatLeeway = 30 * time.Second
)

// WithDSTAuth validates a short-lived RS256 Bearer JWT issued by core for the
// converter audience. An empty key disables authentication.
func WithDSTAuth(jwtPublicKeyPEM string) (func(http.Handler) http.Handler, error) {
	if jwtPublicKeyPEM == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtPublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("invalid core RSA public key: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
	)
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return pubKey, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, keyFunc)
			if err != nil || !tok.Valid {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			now := time.Now()
			switch {
			case !claims.VerifyIssuer(dstIssuer, true):
				api.WriteError(w, http.StatusUnauthorized, "bad issuer", nil)
				return
			case !claims.VerifyAudience(dstAudience, true):
				api.WriteError(w, http.StatusUnauthorized, "bad audience", nil)
				return
			case !claims.VerifyExpiresAt(now.Unix(), true):
				api.WriteError(w, http.StatusUnauthorized, "token expired", nil)
				return
			}
			if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(now.Add(dstIatLeeway)) {
				api.WriteError(w, http.StatusUnauthorized, "invalid iat", nil)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing sub", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(api_context.WithAuthUserID(r.Context(), sub)))
		})
	}, nil
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
