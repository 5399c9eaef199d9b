package widget

import "context"

// EmbedSession captures the shop/page identifiers for the current embed so
// clients and hooks can tag their requests without extra plumbing.
type EmbedSession struct {
	Shop   string
	Path   string
	Locale string
}

type sessionContextKey struct{}

// ContextWithSession stores the embed session on the provided context.
func ContextWithSession(ctx context.Context, session EmbedSession) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFrom extracts the embed session from the context, if present.
func SessionFrom(ctx context.Context) EmbedSession {
	if ctx == nil {
		return EmbedSession{}
	}
	if session, ok := ctx.Value(sessionContextKey{}).(EmbedSession); ok {
		return session
	}
	return EmbedSession{}
}
