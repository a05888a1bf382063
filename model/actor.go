// api/model/actor.go
package model

import "context"

type actorContextKey struct{}

// WithActor returns a context carrying the security identities of the
// acting principal, normally the principal sid plus one authority sid per
// granted role.
func WithActor(ctx context.Context, sids []Sid) context.Context {
	return context.WithValue(ctx, actorContextKey{}, sids)
}

// ActorFrom extracts the acting principal's sids from the context, or nil
// when no actor is attached.
func ActorFrom(ctx context.Context) []Sid {
	sids, _ := ctx.Value(actorContextKey{}).([]Sid)
	return sids
}

// PrincipalFrom returns the first principal sid attached to the context,
// or "anonymous" when there is none.
func PrincipalFrom(ctx context.Context) string {
	for _, sid := range ActorFrom(ctx) {
		if sid.Type == SidPrincipal {
			return sid.Value
		}
	}
	return "anonymous"
}
