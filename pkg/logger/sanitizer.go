package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|access[_-]?key)[\s:=]+[^\s]+`)
	dsnPattern      = regexp.MustCompile(`(?i)(postgres(?:ql)?://[^:/\s]+):[^@\s]+@`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes credentials from log messages. Database DSNs keep
// their user and host but lose the password.
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = dsnPattern.ReplaceAllString(message, "${1}:"+redactedPlaceholder+"@")

	return message
}

// SanitizeMap replaces values of sensitive keys, used for audit metadata.
func SanitizeMap(data map[string]any) map[string]any {
	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"token", "jwt", "bearer",
		"secret", "access_key",
		"password_hash",
	}

	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		lowerKey := strings.ToLower(k)
		isSensitive := false

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(lowerKey, sensitiveKey) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}

	return sanitized
}
