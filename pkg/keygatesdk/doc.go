/*
Package keygatesdk provides wire types and a client for the keygate
entitlement service.

# Client vs Session

Every call carries the shared API secret. Client covers the public and bot
routes; Session additionally asserts an identity through the X-Identity-ID
header, the way the upstream gateway does after it has authenticated a user.

	client := keygatesdk.NewClient("https://keys.example.com", apiSecret)

	// Public
	v, err := client.VerifyKey(ctx, "ABCD-EFGH-IJKL-MNOP")

	// Chat bot
	ident, err := client.LinkExternal(ctx, keygatesdk.ExternalLinkRequest{...})

	// Identity scoped
	s := client.Session(identityID)
	res, err := s.RedeemKey(ctx, "ABCD-EFGH-IJKL-MNOP")
	inv, err := s.CreateInvite(ctx)

# Errors

Non-2xx responses come back as *APIError carrying the HTTP status and the
stable error code, for example "key_already_claimed" or "quota_exceeded".

	var apiErr *keygatesdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == keygatesdk.ErrorCodeQuotaExceeded {
		...
	}
*/
package keygatesdk
