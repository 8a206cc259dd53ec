package auth

const (
	ContextKeyAdminClaims = "admin_claims"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	adminSubject = "admin"
	tokenIssuer  = "share-portal"
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgAdminNotAuthenticated   = "admin not authenticated"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgTokenNotAdmin           = "token subject is not admin"
	msgGenerateTokenFail       = "failed to generate token"
)
