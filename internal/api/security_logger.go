package api

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/MJE43/session-secret-go/internal/version"
)

// SecurityLogger writes audit and security events. Secret values and tokens
// never reach the log; tokens are reduced to a short fingerprint.
type SecurityLogger struct {
	logger *slog.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger(logger *slog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With("component", "security"),
	}
}

// LogGenerateOperation records the settings of a generation request
func (sl *SecurityLogger) LogGenerateOperation(requestID, runID, operation string, length, count int, classes []string, encoded bool) {
	sl.logger.Info("generate_operation",
		"request_id", requestID,
		"run_id", runID,
		"operation", operation,
		"length", length,
		"count", count,
		"classes", strings.Join(classes, ","),
		"encoded", encoded,
		"engine_version", version.EngineVersion,
	)
}

// LogSecurityEvent logs security-related events (failed validations, rejected tokens)
func (sl *SecurityLogger) LogSecurityEvent(
	requestID string,
	eventType string,
	description string,
	context map[string]interface{},
	remoteAddr string,
) {
	sl.logger.Warn("security_event",
		"request_id", requestID,
		"type", eventType,
		"description", description,
		"context", sl.sanitizeContext(context),
		"remote_addr", remoteAddr,
		"engine_version", version.EngineVersion,
	)
}

// LogAuditEvent logs audit events for compliance and debugging
func (sl *SecurityLogger) LogAuditEvent(
	requestID string,
	action string,
	resource string,
	outcome string,
	details map[string]interface{},
) {
	sl.logger.Info("audit_event",
		"request_id", requestID,
		"action", action,
		"resource", resource,
		"outcome", outcome,
		"details", sl.sanitizeContext(details),
		"engine_version", version.EngineVersion,
	)
}

// LogSystemStartup records the server configuration at startup
func (sl *SecurityLogger) LogSystemStartup(details map[string]interface{}) {
	sl.logger.Info("system_startup",
		"details", sl.sanitizeContext(details),
		"engine_version", version.EngineVersion,
		"git_commit", version.GitCommit,
		"build_time", version.BuildTime,
	)
}

// fingerprint returns the first 16 hex chars of the SHA-256 of value.
func fingerprint(value string) string {
	if value == "" {
		return "empty"
	}
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])[:16]
}

// sanitizeContext removes sensitive data from context maps
func (sl *SecurityLogger) sanitizeContext(context map[string]interface{}) map[string]interface{} {
	if context == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(context))
	for key, value := range context {
		switch key {
		case "secret", "secrets", "password":
			sanitized[key] = "[REDACTED]"
		case "token", "api_key", "authorization":
			if strVal, ok := value.(string); ok {
				sanitized[key+"_fingerprint"] = fingerprint(strVal)
			} else {
				sanitized[key] = "[REDACTED]"
			}
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}
