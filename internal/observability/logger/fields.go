package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// STANDARD FIELDS - HTTP
// =================================================================================

// RequestID creates a field for the request ID.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method creates a field for the HTTP method.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path creates a field for the request path.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status creates a field for the HTTP status code.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration creates a field for the request duration.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// DurationMs creates a field for the duration in milliseconds.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes creates a field for the response size.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// ClientIP creates a field for the client IP.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// UserAgent creates a field for the User-Agent.
func UserAgent(v string) zap.Field {
	return zap.String("user_agent", v)
}

// =================================================================================
// STANDARD FIELDS - DOMAIN
// =================================================================================

// Provider creates a field for the identity provider name.
func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// Outcome creates a field for the resolution outcome
// (matched, created, rejected, failed).
func Outcome(v string) zap.Field {
	return zap.String("outcome", v)
}

// UserID creates a field for the user ID.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// ProviderUserID creates a field for the provider-scoped user ID.
func ProviderUserID(v string) zap.Field {
	return zap.String("provider_user_id", v)
}

// Email creates a field for the email (use with care in prod).
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Reason creates a field for a rejection reason code.
func Reason(v string) zap.Field {
	return zap.String("reason", v)
}

// =================================================================================
// STANDARD FIELDS - SYSTEM
// =================================================================================

// Component creates a field for the component/module.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op creates a field for the current operation.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err creates a field for an error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// =================================================================================
// STANDARD FIELDS - DATA
// =================================================================================

// Count creates a field for a count.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// ID creates a generic ID field.
func ID(v string) zap.Field {
	return zap.String("id", v)
}

// Key creates a generic key field.
func Key(v string) zap.Field {
	return zap.String("key", v)
}

// Any creates a generic field for any type.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}

// String creates a generic string field.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int creates a generic int field.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool creates a generic bool field.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
