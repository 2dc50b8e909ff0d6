// Package api defines the wire types and error taxonomy for the parlor API.
//
// Errors carry an HTTP status and an optional client-visible message.
// Statuses with confidentiality requirements (401, 403, 404) carry no
// message at all, so nothing about the failure leaks to the client beyond
// the status code itself. Validation helpers enforce the username and
// permission-string policies shared by registration, authentication, and
// membership grants.
package api
