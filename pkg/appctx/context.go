package appctx

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	PartnerIDKey = ContextKey("X-Partner-Id")
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetPartnerID(ctx context.Context, partnerID string) context.Context {
	return context.WithValue(ctx, PartnerIDKey, partnerID)
}

func GetPartnerID(ctx context.Context) string {
	value, ok := ctx.Value(PartnerIDKey).(string)
	if !ok {
		return ""
	}
	return value
}
