package http

const (
	keyResult      = "result"
	keyRedirectURL = "redirect_url"

	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"

	msgInvalidJSON        = "invalid JSON body"
	msgPasswordRequired   = "password is required"
	msgKeyOrMnemonic      = "hex_private_key or mnemonic is required"
	msgAccountExists      = "account exists."
	msgIdentityExists     = "identity exists."
	msgSaveFailed         = "failed to save wallet"
	msgNoDefaultAccount   = "no default account"
	msgInvalidContract    = "invalid contract address"
	msgChangeSuccessful   = "Change successful"
	msgIdentityChanged    = "Change Successful"
	msgInvalidPassword    = "invalid password"
	msgInvalidB58Address  = "invalid base58 address"
	msgIdentityBadPass    = "Invalid Password"
	msgInvalidOntID       = "Invalid OntId"
	msgNetSucceed         = "succeed"
	msgUnsupportedNetwork = "unsupported network."
	msgLocalhostFailed    = "Connection to localhost node failed."
	msgAddressMismatch    = "remote rpc address set failed. the rpc address now used is %s"
	msgUnlockFailed       = "unlock failed!"
	msgUnlockSuccessful   = "unlock %s successful!"
	msgRemoveSuccessful   = "remove %s successful!"
	msgRemoveFailed       = "remove %s failed!"
	msgLocked             = "locked"
	msgTooManyAttempts    = "too many attempts"
	msgForbidden          = "forbidden"
	msgForbiddenHost      = "forbidden host"
	msgForbiddenOrigin    = "forbidden origin"

	unlockKindAccount  = "account"
	unlockKindIdentity = "identity"
)
