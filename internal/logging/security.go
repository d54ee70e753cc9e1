// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an authentication or authorization event for the audit
// trail. Identifying fields are masked when the event is written.
type SecurityEvent struct {
	// Event names what happened, e.g. "login_success" or "access_denied".
	Event     string
	Username  string
	Role      string
	SessionID string
	IPAddress string
	UserAgent string
	Success   bool
	Reason    string
	Details   map[string]string
}

// SecurityLogger writes security events under the "security" component.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger on logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "security").Logger(),
	}
}

// LogEvent writes event. Failures are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.SessionID != "" {
		e = e.Str("session", SanitizeSessionID(event.SessionID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Reason != "" {
		e = e.Str("reason", SanitizeError(event.Reason))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("security event")
}

// LogLoginSuccess records a successful login and the role it resolved to.
func (l *SecurityLogger) LogLoginSuccess(username, role, sessionID, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_success",
		Username:  username,
		Role:      role,
		SessionID: sessionID,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure records a rejected or failed login.
func (l *SecurityLogger) LogLoginFailure(username, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failed",
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Reason:    reason,
	})
}

// LogLogout records an explicit logout.
func (l *SecurityLogger) LogLogout(username, sessionID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "logout",
		Username:  username,
		SessionID: sessionID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogSessionExpired records a credential the upstream no longer accepts.
// source names where the rejection was seen ("resume", "proxy").
func (l *SecurityLogger) LogSessionExpired(username, sessionID, source string) {
	l.LogEvent(&SecurityEvent{
		Event:     "session_expired",
		Username:  username,
		SessionID: sessionID,
		Success:   true,
		Details:   map[string]string{"source": source},
	})
}

// LogSessionRotated records the replacement of a session id at login.
func (l *SecurityLogger) LogSessionRotated(oldSessionID, newSessionID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "session_rotated",
		SessionID: newSessionID,
		IPAddress: ip,
		Success:   true,
		Details:   map[string]string{"previous_session": oldSessionID},
	})
}

// LogAccessDenied records a guard rejection for an authenticated user.
func (l *SecurityLogger) LogAccessDenied(username, role, path, requirement, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "access_denied",
		Username:  username,
		Role:      role,
		IPAddress: ip,
		Details: map[string]string{
			"path":        path,
			"requirement": requirement,
		},
	})
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b" -> "9944...ee4b"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSessionID masks a session ID.
// Example: "3f9a...64 hex chars...c01d" -> "3f9a...c01d"
func SanitizeSessionID(sessionID string) string {
	return SanitizeToken(sessionID)
}

// SanitizeUsername masks a username, keeping first 2 characters.
// Example: "alice" -> "al***"
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

// SanitizeEmail masks the local part of an email address.
// Example: "alice.martin@oceans.example" -> "al***@oceans.example"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

var sensitivePatterns = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"cookie",
}

// SanitizeError replaces messages that may quote a credential with a
// generic one and truncates the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

var sensitiveKeys = map[string]bool{
	"token":            true,
	"password":         true,
	"authorization":    true,
	"cookie":           true,
	"session":          true,
	"session_id":       true,
	"previous_session": true,
}

// SanitizeValue masks value based on its key name.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
