package keygatesdk

import "time"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Identities
// ============================================================================

type BootstrapRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	InviteCode string `json:"invite_code"`
	Handle     string `json:"handle"`
	Password   string `json:"password"`
}

type RegisterResponse struct {
	Identity IdentityResponse `json:"identity"`
	TrialKey *KeyResponse     `json:"trial_key,omitempty"`
}

type IdentityResponse struct {
	ID             string    `json:"id"`
	Handle         string    `json:"handle"`
	Role           string    `json:"role"`
	Banned         bool      `json:"banned"`
	ExternalID     string    `json:"external_id,omitempty"`
	ExternalHandle string    `json:"external_handle,omitempty"`
	InvitedBy      string    `json:"invited_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IdentityDetailResponse is the staff view of one identity.
type IdentityDetailResponse struct {
	Identity IdentityResponse `json:"identity"`
	Keys     []KeyResponse    `json:"keys"`
}

// ExternalStatusResponse is the subscription state of a linked chat account.
type ExternalStatusResponse struct {
	Identity  IdentityResponse `json:"identity"`
	Entitled  bool             `json:"entitled"`
	ValidKeys []KeyResponse    `json:"valid_keys"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type LinkCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExternalLinkRequest is sent by the chat bot when a member types a link code.
type ExternalLinkRequest struct {
	Code           string `json:"code"`
	ExternalID     string `json:"external_id"`
	ExternalHandle string `json:"external_handle,omitempty"`
}

// ============================================================================
// Keys
// ============================================================================

type KeyResponse struct {
	ID              string     `json:"id"`
	Token           string     `json:"token"`
	OwnerID         string     `json:"owner_id,omitempty"`
	OwnerHandle     string     `json:"owner_handle,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	TimeLeftSeconds int64      `json:"time_left_seconds"`
}

type GenerateKeyRequest struct {
	DurationHours int    `json:"duration_hours"`
	OwnerID       string `json:"owner_id,omitempty"`
	CustomToken   string `json:"custom_token,omitempty"`
}

type RedeemKeyRequest struct {
	Token string `json:"token"`
}

type RedeemKeyResponse struct {
	Token           string    `json:"token"`
	ExpiresAt       time.Time `json:"expires_at"`
	TimeLeftSeconds int64     `json:"time_left_seconds"`
}

// ExternalRedeemRequest is sent by the chat bot on behalf of a linked member.
type ExternalRedeemRequest struct {
	ExternalID string `json:"external_id"`
	Token      string `json:"token"`
}

type VerifyKeyRequest struct {
	Token string `json:"token"`
}

// VerifyKeyResponse carries only Valid=false for every failure.
type VerifyKeyResponse struct {
	Valid           bool   `json:"valid"`
	TimeLeftSeconds int64  `json:"time_left_seconds,omitempty"`
	OwnerHandle     string `json:"owner_handle,omitempty"`
}

type BulkKeyRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

type CleanupKeysRequest struct {
	OlderThanDays  int  `json:"older_than_days"`
	IncludeExpired bool `json:"include_expired"`
	IncludeRevoked bool `json:"include_revoked"`
}

type CountResponse struct {
	Affected int `json:"affected"`
}

type KeyStatsResponse struct {
	Total         int       `json:"total"`
	Expired       int       `json:"expired"`
	Revoked       int       `json:"revoked"`
	OlderThan30d  int       `json:"older_than_30d"`
	OlderThan90d  int       `json:"older_than_90d"`
	OlderThan180d int       `json:"older_than_180d"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ============================================================================
// Invites
// ============================================================================

type InviteResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	UsedBy    string    `json:"used_by,omitempty"`
}

type BulkDeleteInvitesRequest struct {
	IDs []string `json:"ids"`
}

type RoleLimits struct {
	Admin     int        `json:"admin"`
	Support   int        `json:"support"`
	User      int        `json:"user"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type QuotaResponse struct {
	Role         string     `json:"role"`
	MonthlyLimit int        `json:"monthly_limit"`
	Used         int        `json:"used"`
	Remaining    int        `json:"remaining"`
	ResetsAt     time.Time  `json:"resets_at"`
	Limits       RoleLimits `json:"limits"`
}
