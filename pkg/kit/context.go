package kit

import "context"

type contextKey string

const (
	TransportKey contextKey = "kit_transport"
	RequestIDKey contextKey = "kit_request_id"
	LocaleKey    contextKey = "kit_locale"
)

// Transport names recorded in the context.
const (
	TransportHTTP = "http"
	TransportMCP  = "mcp"
	TransportCLI  = "cli"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportHTTP
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// WithLocale records the learner's locale tag (e.g. from Accept-Language).
func WithLocale(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, LocaleKey, tag)
}

// GetLocale returns the locale recorded by WithLocale, or "".
func GetLocale(ctx context.Context) string {
	v, _ := ctx.Value(LocaleKey).(string)
	return v
}
