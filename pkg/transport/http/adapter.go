// Package http serves the parlor API over HTTP. The adapter owns the
// route table and per-route gates; the surrounding pipeline (security
// headers, rate limiting, soft authentication, auditing) is assembled in
// Handler so every route, including unknown paths, passes through it.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/audit"
	"github.com/parlor-dev/parlor/pkg/auth"
	"github.com/parlor-dev/parlor/pkg/observability"
	"github.com/parlor-dev/parlor/pkg/storage"
	"github.com/parlor-dev/parlor/pkg/token"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// Adapter routes parlor API requests to their handlers.
type Adapter struct {
	store   storage.Store
	tokens  token.Store
	audit   *audit.Logger
	limiter auth.RateLimiter
	authn   *auth.PasswordAuthenticator
	logger  *slog.Logger
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	TokenTTL    time.Duration
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
		TokenTTL:    10 * time.Minute,
	}
}

// NewAdapter creates the HTTP adapter and registers the route table with
// its per-route hard gates. Soft stages live in Handler, not here.
func NewAdapter(store storage.Store, tokens token.Store, auditLog *audit.Logger, limiter auth.RateLimiter, cfg Config, logger *slog.Logger) *Adapter {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		store:   store,
		tokens:  tokens,
		audit:   auditLog,
		limiter: limiter,
		authn:   auth.NewPasswordAuthenticator(store),
		logger:  logger,
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	a.mux.HandleFunc("POST /users", a.handleRegister)
	a.mux.Handle("POST /sessions",
		auth.RequireAuthentication(http.HandlerFunc(a.handleLogin)))
	a.mux.Handle("DELETE /sessions",
		auth.RequireAuthentication(http.HandlerFunc(a.handleLogout)))
	a.mux.Handle("POST /spaces",
		auth.RequireAuthentication(http.HandlerFunc(a.handleCreateSpace)))
	a.mux.Handle("POST /spaces/{spaceId}/members",
		auth.RequirePermission(store, http.MethodPost, "w")(http.HandlerFunc(a.handleAddMember)))
	a.mux.HandleFunc("GET /logs", a.audit.HandleRead)
	a.mux.HandleFunc("/", a.handleNotFound)

	return a
}

// Handler returns the adapter wrapped in the full request pipeline. The
// order is load-bearing: admission control runs before the memory-hard
// password hash can be reached, and both identity stages are soft — hard
// enforcement happens only at the per-route gates.
func (a *Adapter) Handler() http.Handler {
	return transport.Chain(
		transport.SecurityHeaders(),
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(a.logger),
		observability.MetricsMiddleware,
		auth.RateLimit(a.limiter),
		transport.ContentTypeGuard(),
		a.authn.Middleware,
		token.Validate(a.tokens),
		a.audit.Middleware(),
	)(a.mux)
}

// handleRegister creates a user from {username,password}.
func (a *Adapter) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := a.decode(w, r, &req); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidateUsername(req.Username); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidatePassword(req.Password); err != nil {
		transport.WriteError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	err = a.store.CreateUser(r.Context(), storage.User{
		Username:     req.Username,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrConflict) {
		transport.WriteError(w, api.NewValidationError("username already registered"))
		return
	}
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	w.Header().Set("Location", "/users/"+req.Username)
	transport.WriteJSON(w, http.StatusCreated, api.RegisterResponse{Username: req.Username})
}

// handleLogin issues a fresh token for the already-authenticated subject.
func (a *Adapter) handleLogin(w http.ResponseWriter, r *http.Request) {
	subject := auth.Subject(r.Context())

	tokenID, err := a.tokens.Create(w, r, token.Token{
		Subject: subject,
		Expiry:  time.Now().Add(a.config.TokenTTL),
	})
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	observability.TokensIssuedTotal.Inc()
	transport.WriteJSON(w, http.StatusCreated, api.LoginResponse{Token: tokenID})
}

// handleLogout revokes the token named by the request header.
func (a *Adapter) handleLogout(w http.ResponseWriter, r *http.Request) {
	tokenID := r.Header.Get(token.Header)
	if tokenID == "" {
		transport.WriteError(w, api.NewValidationError("missing token header"))
		return
	}

	if err := a.tokens.Revoke(w, r, tokenID); err != nil {
		transport.WriteError(w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, struct{}{})
}

// handleCreateSpace creates a space owned by the authenticated subject.
func (a *Adapter) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSpaceRequest
	if err := a.decode(w, r, &req); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidateSpaceName(req.Name); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidateUsername(req.Owner); err != nil {
		transport.WriteError(w, err)
		return
	}

	// Nobody creates spaces on someone else's behalf.
	if req.Owner != auth.Subject(r.Context()) {
		transport.WriteError(w, api.NewForbiddenError())
		return
	}

	space, err := a.store.CreateSpace(r.Context(), req.Name, req.Owner)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	uri := fmt.Sprintf("/spaces/%d", space.ID)
	w.Header().Set("Location", uri)
	transport.WriteJSON(w, http.StatusCreated, api.CreateSpaceResponse{Name: space.Name, URI: uri})
}

// handleAddMember grants permissions on a space to an existing user.
func (a *Adapter) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req api.AddMemberRequest
	if err := a.decode(w, r, &req); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidateUsername(req.Username); err != nil {
		transport.WriteError(w, err)
		return
	}
	if err := api.ValidatePermissions(req.Permissions); err != nil {
		transport.WriteError(w, err)
		return
	}

	spaceID, err := strconv.ParseInt(r.PathValue("spaceId"), 10, 64)
	if err != nil {
		transport.WriteError(w, api.NewValidationError("invalid space id"))
		return
	}

	// Grants to unknown users would create dangling permissions.
	if _, err := a.store.GetUser(r.Context(), req.Username); err != nil {
		transport.WriteError(w, err)
		return
	}

	err = a.store.GrantPermission(r.Context(), storage.Permission{
		SpaceID:  spaceID,
		Username: req.Username,
		Perms:    req.Permissions,
	})
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, api.AddMemberResponse{
		Username:    req.Username,
		Permissions: req.Permissions,
	})
}

// handleNotFound is the catch-all for unmatched paths.
func (a *Adapter) handleNotFound(w http.ResponseWriter, r *http.Request) {
	transport.WriteError(w, &api.Error{Status: http.StatusNotFound, Message: "not found"})
}

// decode reads a JSON request body into v, bounding its size.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return api.NewValidationError("invalid request body")
	}
	return nil
}
