package api

import (
	"context"
)

type keyType string

const adminKey keyType = "admin"

// ctxWithAdmin stores the authenticated admin subject in the context
func ctxWithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminKey, subject)
}

// ctxGetAdmin returns the authenticated admin subject, if any
func ctxGetAdmin(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(adminKey).(string)
	return subject, ok && subject != ""
}
