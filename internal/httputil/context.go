package httputil

import (
	"context"
	"net/http"
)

// Unexported key type so no other package can collide with our context values
type contextKey string

const (
	userIDKey contextKey = "userID"
)

// WithUserID stores the session user ID on the request. Set by the auth
// middleware; everything downstream reads it through GetUserID.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the session user ID, or "" when the request never
// passed the auth middleware
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
