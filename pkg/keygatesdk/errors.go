package keygatesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest        = "invalid_request"
	ErrorCodeUnauthorized          = "unauthorized"
	ErrorCodeIdentityRequired      = "identity_required"
	ErrorCodeRateLimited           = "rate_limit_exceeded"
	ErrorCodeServerError           = "server_error"
	ErrorCodeKeyNotFound           = "key_not_found"
	ErrorCodeKeyExpired            = "key_expired"
	ErrorCodeKeyInactive           = "key_inactive"
	ErrorCodeKeyAlreadyClaimed     = "key_already_claimed"
	ErrorCodeDuplicateToken        = "duplicate_token"
	ErrorCodeInviteNotFound        = "invite_not_found"
	ErrorCodeInviteAlreadyUsed     = "invite_already_used"
	ErrorCodeInviteExpired         = "invite_expired"
	ErrorCodeQuotaExceeded         = "quota_exceeded"
	ErrorCodeForbidden             = "forbidden"
	ErrorCodeBanned                = "banned"
	ErrorCodeHandleTaken           = "handle_taken"
	ErrorCodeExternalAlreadyLinked = "external_already_linked"
	ErrorCodeLinkCodeInvalid       = "link_code_invalid"
	ErrorCodeExternalNotLinked     = "external_not_linked"
	ErrorCodeExternalUnavailable   = "external_unavailable"
	ErrorCodeIdentityNotFound      = "identity_not_found"
	ErrorCodeInvalidCredentials    = "invalid_credentials"
	ErrorCodeConflict              = "conflict"
	ErrorCodeAlreadyBootstrapped   = "already_bootstrapped"
	ErrorCodeBootstrapUnauthorized = "bootstrap_unauthorized"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
