package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CurrentUserID returns the authenticated user's ID from the verified access
// token, or nil when the request carries no token. Handlers that allow
// anonymous viewers (token-shared calendars) check for nil instead of
// rejecting outright.
func CurrentUserID(ctx iris.Context) *uint {
	tok := jwt.Get(ctx)
	if tok == nil {
		return nil
	}
	claims, ok := tok.(*AccessToken)
	if !ok {
		return nil
	}
	id := claims.ID
	return &id
}

// RequireUserID is like CurrentUserID but stops the request with a 401 when
// unauthenticated.
func RequireUserID(ctx iris.Context) (uint, bool) {
	id := CurrentUserID(ctx)
	if id == nil {
		ctx.StopWithStatus(iris.StatusUnauthorized)
		return 0, false
	}
	return *id, true
}

// OptionalAuthMiddleware verifies the access token only when the request
// carries one. Calendar views are reachable by anonymous share-token holders,
// so a missing Authorization header passes through unauthenticated while a
// present-but-invalid one is still rejected.
func OptionalAuthMiddleware(verifier *jwt.Verifier) iris.Handler {
	verify := verifier.Verify(func() interface{} { return new(AccessToken) })
	return func(ctx iris.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		verify(ctx)
	}
}
