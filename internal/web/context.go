package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/rostersync/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to the context so
// they are recorded on sync runs.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
