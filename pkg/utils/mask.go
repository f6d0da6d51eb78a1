package utils

import "regexp"

var dsnPasswordRegex = regexp.MustCompile(`(:)([^:@]+)(@)`)

// MaskDSN hides the password portion of a connection string such as
// redis://:pass@host:6379/0.
func MaskDSN(dsn string) string {
	return dsnPasswordRegex.ReplaceAllString(dsn, ":***@")
}

// MaskToken keeps the first and last four characters of a bearer token so log
// lines can be correlated without exposing the credential.
func MaskToken(token string) string {
	if len(token) <= 12 {
		if token == "" {
			return ""
		}
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
