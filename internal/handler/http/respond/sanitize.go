package respond

import "regexp"

var (
	// DSN のパスワード部分
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
	// Authorization ヘッダーの値
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.=]+`)
	// 生の JWT (header.payload.signature)
	jwtPattern = regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`)
)

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = jwtPattern.ReplaceAllString(msg, "****")
	return msg
}
