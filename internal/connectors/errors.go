package connectors

import (
	"errors"
	"fmt"
)

// ConfigError marks a permanent misconfiguration: the connector is missing a
// credential field it cannot work without. It is never retried
// automatically; the user has to reconnect the channel. Anything else a
// connector returns is treated as transient and retried implicitly via
// cache-TTL expiry.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

// Configf builds a ConfigError with a formatted message.
func Configf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// requireCredential validates the common precondition shared by the API
// connectors: a credential must exist, and, when token is set, it must carry
// an access token.
func requireCredential(platform string, cred *Credential, token bool) error {
	if cred == nil {
		return Configf("%s credentials are not configured", platform)
	}
	if token && cred.AccessToken == "" {
		return Configf("%s access token required", platform)
	}
	return nil
}
