// Package auth provides the security gates of the parlor request pipeline:
// rate-limit admission, HTTP Basic password authentication, and per-space
// permission authorization.
//
// Authentication is two-phase by design. The password authenticator's
// middleware is a soft stage: it attaches a subject to the request context
// when valid Basic credentials are present and otherwise does nothing, so
// identity is available to any route without forcing it. Hard enforcement happens only
// at routes that register RequireAuthentication or RequirePermission.
// Collapsing the two phases would change which endpoints are
// anonymous-accessible, so keep them separate.
package auth
