// Package session provides the opaque current-user boundary: a token ->
// user provider and a registry of per-user list controllers. Without an
// authenticated user, no bookmark operation is permitted.
package session

import "context"

// Provider resolves bearer tokens to user ids. Tokens are static
// configuration; real identity management lives outside this service.
type Provider struct {
	tokens map[string]string
}

func NewProvider(tokens map[string]string) *Provider {
	return &Provider{tokens: tokens}
}

// UserForToken returns the user id behind a token, and whether the token is
// known.
func (p *Provider) UserForToken(token string) (string, bool) {
	user, ok := p.tokens[token]
	return user, ok
}

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID extracts the authenticated user id from the context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	return userID, ok && userID != ""
}
