package audit

import "context"

type ctxKey int

const actorKey ctxKey = 1

// WithActor attaches the acting principal (token subject) to the context so
// services can stamp audit entries without threading identity everywhere.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey).(string)
	return actor
}
