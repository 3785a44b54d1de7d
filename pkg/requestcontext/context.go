// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services only read them. Keeping the package
// free of net/http lets services import it without pulling in transport code.
package requestcontext

import "context"

type (
	requestIDKey    struct{}
	adminSubjectKey struct{}
	certSubjectKey  struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyRequestID    = requestIDKey{}
	ContextKeyAdminSubject = adminSubjectKey{}
	ContextKeyCertSubject  = certSubjectKey{}
)

// RequestID retrieves the correlation ID assigned by middleware, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// AdminSubject retrieves the authenticated administrator subject, or "".
func AdminSubject(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyAdminSubject).(string); ok {
		return v
	}
	return ""
}

// WithAdminSubject injects the administrator subject claim into the context.
func WithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ContextKeyAdminSubject, subject)
}

// CertSubject retrieves the already-validated certificate subject identifier
// supplied by the transport layer, or "".
func CertSubject(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyCertSubject).(string); ok {
		return v
	}
	return ""
}

// WithCertSubject injects a certificate subject identifier into the context.
func WithCertSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ContextKeyCertSubject, subject)
}
