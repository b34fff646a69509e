package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/models"
)

// auth enforces the static bearer credential on inbound requests. When no
// token is configured the middleware passes everything through, which is
// the intended setup for a server bound to localhost.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			respondJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: ErrEmptyAuthorizationHeader.Error()})
			return
		}

		token, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			respondJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: err.Error()})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(h.authToken)) != 1 {
			log.Err(ErrInvalidToken).Send()
			respondJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: ErrInvalidToken.Error()})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the token from a "Bearer <token>" header
// value. The scheme comparison is case-insensitive per RFC 9110.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrInvalidAuthorizationHeader
	}

	return token, nil
}
