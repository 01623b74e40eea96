// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package extensions implements the process-wide extension registry (spec
component S): a set of optional integration slots consumers check before
calling ("check slot; if present, call"). Each slot's protocol carries a
SemVer version constant so a host application can detect a breaking
change in the contract it implements against.
*/
package extensions

import (
	"context"
	"sync"
)

// TenantProviderVersion is the SemVer of the TenantProvider protocol.
const TenantProviderVersion = "1.0.0"

// UsageTrackerVersion is the SemVer of the UsageTracker protocol.
const UsageTrackerVersion = "1.0.0"

// AuditLoggerVersion is the SemVer of the AuditLogger protocol.
const AuditLoggerVersion = "1.0.0"

// ResponseFilterVersion is the SemVer of the ResponseFilter protocol.
const ResponseFilterVersion = "1.0.0"

// MemoryProviderVersion is the SemVer of the MemoryProvider protocol.
const MemoryProviderVersion = "1.0.0"

// ChatbotAuthVersion is the SemVer of the ChatbotAuth protocol.
const ChatbotAuthVersion = "1.0.0"

// ChatbotRateLimitVersion is the SemVer of the ChatbotRateLimit protocol.
const ChatbotRateLimitVersion = "1.0.0"

// ChatbotAccessVersion is the SemVer of the ChatbotAccess protocol.
const ChatbotAccessVersion = "1.0.0"

// TenantProvider resolves the active tenant for a request context.
type TenantProvider interface {
	ResolveTenant(ctx context.Context) (string, error)
}

// UsageTracker records billable or quota-relevant engine usage.
type UsageTracker interface {
	TrackUsage(ctx context.Context, tenantID, operation string, units int)
}

// AuditLogger records security and access-relevant engine events.
type AuditLogger interface {
	LogEvent(ctx context.Context, eventType, actorID, detail string)
}

// ResponseFilter transforms or rejects a response before it reaches the
// caller.
type ResponseFilter interface {
	Filter(ctx context.Context, response string) (string, error)
}

// MemoryProvider is a host-supplied alternative backing store for
// memories, used in place of the engine's own provider.
type MemoryProvider interface {
	Name() string
}

// ChatbotAuth authenticates a chatbot-channel caller.
type ChatbotAuth interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// ChatbotRateLimit rate-limits a chatbot-channel caller.
type ChatbotRateLimit interface {
	Allow(ctx context.Context, callerID string) bool
}

// ChatbotAccess authorizes a chatbot-channel caller against a resource.
type ChatbotAccess interface {
	CanAccess(ctx context.Context, callerID, resource string) bool
}

// Registry holds the process-wide set of optional extension slots.
// Consumers read slots via the typed getters and follow the "check slot;
// if present, call" pattern — a nil slot means the extension is simply
// not installed.
type Registry struct {
	mu sync.RWMutex

	tenantProvider   TenantProvider
	usageTracker     UsageTracker
	auditLogger      AuditLogger
	responseFilter   ResponseFilter
	memoryProvider   MemoryProvider
	chatbotAuth      ChatbotAuth
	chatbotRateLimit ChatbotRateLimit
	chatbotAccess    ChatbotAccess
}

var (
	instanceMu sync.RWMutex
	instance   *Registry
)

// Get returns the process-wide Registry, double-checked-lock
// initializing it on first use.
func Get() *Registry {
	instanceMu.RLock()
	r := instance
	instanceMu.RUnlock()
	if r != nil {
		return r
	}

	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Registry{}
	}
	return instance
}

// Reset clears the process-wide Registry. Test-only.
func Reset() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
}

// SetTenantProvider installs or clears the tenant-provider slot.
func (r *Registry) SetTenantProvider(p TenantProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenantProvider = p
}

// TenantProvider returns the installed tenant-provider slot, or nil.
func (r *Registry) TenantProvider() TenantProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tenantProvider
}

// SetUsageTracker installs or clears the usage-tracker slot.
func (r *Registry) SetUsageTracker(t UsageTracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usageTracker = t
}

// UsageTracker returns the installed usage-tracker slot, or nil.
func (r *Registry) UsageTracker() UsageTracker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usageTracker
}

// SetAuditLogger installs or clears the audit-logger slot.
func (r *Registry) SetAuditLogger(l AuditLogger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditLogger = l
}

// AuditLogger returns the installed audit-logger slot, or nil.
func (r *Registry) AuditLogger() AuditLogger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.auditLogger
}

// SetResponseFilter installs or clears the response-filter slot.
func (r *Registry) SetResponseFilter(f ResponseFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responseFilter = f
}

// ResponseFilter returns the installed response-filter slot, or nil.
func (r *Registry) ResponseFilter() ResponseFilter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.responseFilter
}

// SetMemoryProvider installs or clears the memory-provider slot.
func (r *Registry) SetMemoryProvider(p MemoryProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memoryProvider = p
}

// MemoryProvider returns the installed memory-provider slot, or nil.
func (r *Registry) MemoryProvider() MemoryProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.memoryProvider
}

// SetChatbotAuth installs or clears the chatbot-auth slot.
func (r *Registry) SetChatbotAuth(a ChatbotAuth) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chatbotAuth = a
}

// ChatbotAuth returns the installed chatbot-auth slot, or nil.
func (r *Registry) ChatbotAuth() ChatbotAuth {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chatbotAuth
}

// SetChatbotRateLimit installs or clears the chatbot-rate-limit slot.
func (r *Registry) SetChatbotRateLimit(l ChatbotRateLimit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chatbotRateLimit = l
}

// ChatbotRateLimit returns the installed chatbot-rate-limit slot, or nil.
func (r *Registry) ChatbotRateLimit() ChatbotRateLimit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chatbotRateLimit
}

// SetChatbotAccess installs or clears the chatbot-access slot.
func (r *Registry) SetChatbotAccess(a ChatbotAccess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chatbotAccess = a
}

// ChatbotAccess returns the installed chatbot-access slot, or nil.
func (r *Registry) ChatbotAccess() ChatbotAccess {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chatbotAccess
}
