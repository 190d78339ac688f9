package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/service"
	"github.com/aussiebroadwan/keygate/pkg/clock"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"

	_ "github.com/aussiebroadwan/keygate/api/keygate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is the readiness dependency, normally the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	apiSecret    string
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	Clock              clock.TimeSource
	EntitlementService *service.EntitlementService
	IdentityService    *service.IdentityService
	BootstrapService   *service.BootstrapService
}

func NewRouter(
	apiSecret, buildVersion string,
	limits httpx.RateLimits,
	db Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		apiSecret:    apiSecret,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerIdentity()
	r.registerKeys()
	r.registerInvites()
	r.registerExternal()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Keygate Entitlement Service API
//	@version		0.1.0
//	@description	License keys, invite quotas and chat role entitlement.
//	@description
//	@description	Every /v1 route except bootstrap, register and verify requires the shared API secret. Identity scoped routes
//	@description	also require the X-Identity-ID header set by the upstream gateway.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/keygate
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shared API secret. Format: "Bearer {secret}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured requires the API secret.
func (r *Router) secured(h http.Handler, mws ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{httpx.RequireSecret(r.apiSecret)}, mws...)...)
}

// asIdentity requires the API secret and a gateway-asserted identity, rate
// limited per identity.
func (r *Router) asIdentity(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return r.secured(h,
		httpx.RequireIdentity(),
		httpx.RateLimitByIdentity(limit),
	)
}

func (r *Router) registerPublic() {
	// POST /bootstrap - one-time setup, guarded by its own token
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	// POST /register - signup with invite, strict by IP
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(&RegisterHandler{IdentityService: r.IdentityService, Clock: r.Clock},
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	// POST /keys/verify - strict by IP so tokens cannot be enumerated
	keys := &KeysHandler{EntitlementService: r.EntitlementService, Clock: r.Clock}
	r.Mux.Handle("POST /v1/keys/verify",
		httpx.Chain(http.HandlerFunc(keys.HandleVerify),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerIdentity() {
	h := &IdentityHandler{IdentityService: r.IdentityService}

	r.Mux.Handle("GET /v1/me", r.asIdentity(h.HandleMe, r.limits.Lenient))
	r.Mux.Handle("POST /v1/link-codes", r.asIdentity(h.HandleLinkCode, r.limits.Moderate))
}

func (r *Router) registerKeys() {
	h := &KeysHandler{EntitlementService: r.EntitlementService, Clock: r.Clock}

	r.Mux.Handle("GET /v1/keys", r.asIdentity(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("POST /v1/keys", r.asIdentity(h.HandleGenerate, r.limits.Moderate))
	r.Mux.Handle("POST /v1/keys/redeem", r.asIdentity(h.HandleRedeem, r.limits.Strict))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{EntitlementService: r.EntitlementService}

	r.Mux.Handle("POST /v1/invites", r.asIdentity(h.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("GET /v1/invites", r.asIdentity(h.HandleList, r.limits.Lenient))
	r.Mux.Handle("GET /v1/invites/quota", r.asIdentity(h.HandleQuota, r.limits.Lenient))
}

func (r *Router) registerExternal() {
	h := &ExternalHandler{
		IdentityService:    r.IdentityService,
		EntitlementService: r.EntitlementService,
		Clock:              r.Clock,
	}

	// Bot routes relay many members from one address, hence the lenient bucket.
	r.Mux.Handle("POST /v1/external/link",
		r.secured(http.HandlerFunc(h.HandleLink), httpx.RateLimitByIP(r.limits.Lenient)),
	)
	r.Mux.Handle("POST /v1/external/redeem",
		r.secured(http.HandlerFunc(h.HandleRedeem), httpx.RateLimitByIP(r.limits.Lenient)),
	)
	r.Mux.Handle("GET /v1/external/status",
		r.secured(http.HandlerFunc(h.HandleStatus), httpx.RateLimitByIP(r.limits.Lenient)),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		EntitlementService: r.EntitlementService,
		IdentityService:    r.IdentityService,
		Clock:              r.Clock,
	}
	m := r.limits.Moderate

	r.Mux.Handle("GET /v1/admin/keys", r.asIdentity(h.HandleListKeys, m))
	r.Mux.Handle("POST /v1/admin/keys/{id}/revoke", r.asIdentity(h.HandleRevokeKey, m))
	r.Mux.Handle("POST /v1/admin/keys/{id}/restore", r.asIdentity(h.HandleRestoreKey, m))
	r.Mux.Handle("POST /v1/admin/keys/bulk", r.asIdentity(h.HandleBulkKeys, m))
	r.Mux.Handle("POST /v1/admin/keys/cleanup", r.asIdentity(h.HandleCleanupKeys, m))
	r.Mux.Handle("GET /v1/admin/keys/stats", r.asIdentity(h.HandleKeyStats, m))

	r.Mux.Handle("DELETE /v1/admin/invites/{id}", r.asIdentity(h.HandleDeleteInvite, m))
	r.Mux.Handle("POST /v1/admin/invites/bulk-delete", r.asIdentity(h.HandleBulkDeleteInvites, m))

	r.Mux.Handle("GET /v1/admin/role-limits", r.asIdentity(h.HandleGetRoleLimits, m))
	r.Mux.Handle("PUT /v1/admin/role-limits", r.asIdentity(h.HandleSetRoleLimits, m))

	r.Mux.Handle("GET /v1/admin/identities", r.asIdentity(h.HandleListIdentities, m))
	r.Mux.Handle("GET /v1/admin/identities/{id}", r.asIdentity(h.HandleInspectIdentity, m))
	r.Mux.Handle("POST /v1/admin/identities/{id}/ban", r.asIdentity(h.HandleBan, m))
	r.Mux.Handle("POST /v1/admin/identities/{id}/unban", r.asIdentity(h.HandleUnban, m))
	r.Mux.Handle("PUT /v1/admin/identities/{id}/role", r.asIdentity(h.HandleSetRole, m))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
