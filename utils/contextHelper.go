package utils

import (
	"context"

	"github.com/telcoflow/circuits_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyRequestUser   = appctx.ContextKeyRequestUser
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetRequestUserFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRequestUser)
}

func SetRequestUserInContext(ctx context.Context, user string) context.Context {
	return appctx.Set(ctx, ContextKeyRequestUser, user)
}
