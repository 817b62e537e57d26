package logging

import (
	"log/slog"
	"net/url"
	"strings"
)

// SecretKeyPatterns contains substrings that indicate a key likely contains sensitive data.
// Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
}

// TokenPrefixes contains known credential prefixes that indicate sensitive values
// regardless of key name.
var TokenPrefixes = []string{
	"Bearer ",
	"Basic ",
	"ghp_",
	"gho_",
	"sk-",
	"AKIA",
	"xoxb-",
	"xoxp-",
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskHeaders returns a copy of headers with every value masked.
// Exporter headers almost always carry credentials, so no key is exempt.
func MaskHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	masked := make(map[string]string, len(headers))
	for k, v := range headers {
		masked[k] = MaskValue(v)
	}
	return masked
}

// MaskURL redacts credentials from URLs.
// URLs with embedded credentials (user:pass@host) become (user:****@host).
// If the URL cannot be parsed, it is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
// Matching is case-insensitive.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known credential prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskAttr is a slog ReplaceAttr function that masks string attributes
// whose key looks sensitive or whose value carries a known token prefix.
func MaskAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if v := a.Value.String(); ShouldMask(a.Key) || ContainsTokenPrefix(v) {
		return slog.String(a.Key, MaskValue(v))
	}
	return a
}
