package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"duochat/internal/auth"
	"duochat/internal/models"
)

// bearerToken pulls the JWT from the Authorization header, falling back to
// the token query parameter for clients that cannot set headers.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func userFromRequest(ctx context.Context, authService *auth.Service, r *http.Request) (*models.User, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		return nil, fmt.Errorf("missing token")
	}
	return authService.GetUserFromToken(ctx, tokenStr)
}
