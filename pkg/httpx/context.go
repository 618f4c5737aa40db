package httpx

import (
	"context"

	"github.com/aussiebroadwan/tnp/pkg/jwtx"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// ContextWithClaims stores verified claims for downstream handlers.
func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFromContext returns the claims placed by AuthnMiddleware.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}
