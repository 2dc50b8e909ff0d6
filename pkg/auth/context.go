package auth

import "context"

// subjectKey is a private type for the subject context key.
type subjectKey struct{}

// attrsKey is a private type for the token-attributes context key.
type attrsKey struct{}

// WithSubject stores the authenticated username in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject retrieves the authenticated username.
// Returns an empty string if no subject is attached (anonymous request).
func Subject(ctx context.Context) string {
	if v, ok := ctx.Value(subjectKey{}).(string); ok {
		return v
	}
	return ""
}

// WithAttributes stores token attributes in the context.
func WithAttributes(ctx context.Context, attrs map[string]string) context.Context {
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// Attributes retrieves token attributes from the context, or nil.
func Attributes(ctx context.Context) map[string]string {
	if v, ok := ctx.Value(attrsKey{}).(map[string]string); ok {
		return v
	}
	return nil
}
