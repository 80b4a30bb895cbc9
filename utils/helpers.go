package utils

import (
	"context"
	"net/http"
)

type editorKey struct{}

// WithEditor stores the logged in editor's name in ctx.
func WithEditor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, editorKey{}, name)
}

// GetEditor returns the editor attached to the request by the auth
// middleware.
func GetEditor(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(editorKey{}).(string)
	return name, ok && name != ""
}
