package handler

const (
	jsonKeyMessage     = "message"
	jsonKeyShareCode   = "shareCode"
	jsonKeyDownloadURL = "downloadUrl"

	paramCode = "code"
	paramID   = "id"

	formFieldFile          = "file"
	formFieldExternalURL   = "externalUrl"
	formFieldDownloadLimit = "downloadLimit"
	formFieldExpiresAt     = "expiresAt"

	headerContentType = "Content-Type"

	// datetime-local inputs post minutes precision without a zone.
	layoutDateTimeLocal = "2006-01-02T15:04"

	auditKeyShareCode = "share_code"
	auditKeyFileName  = "file_name"
	auditKeyKind      = "type"
	auditKeyCount     = "count"
	auditKeyReason    = "reason"
	auditKeySession   = "session_id"
)

const (
	msgUploadSucceeded         = "upload succeeded"
	msgDownloadReady           = "download link ready"
	msgInvalidMultipart        = "invalid multipart form"
	msgInvalidExpiresAt        = "expiresAt must be an RFC 3339 timestamp"
	msgOpenUploadFail          = "failed to read uploaded file"
	msgInvalidShareID          = "invalid share id"
	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgRequestBodyTooLarge     = "request body too large"
	msgFileTooLarge            = "file exceeds the upload size limit"
)
