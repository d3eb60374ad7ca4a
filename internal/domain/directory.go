package domain

import "time"

// ============================================================
// Users, roles and audit logs (read-only back-office surfaces)
// ============================================================

// User is a back-office user as reported by the backend. Authentication is
// handled upstream; this layer only lists users and their permissions.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Role groups a named set of permissions.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// AuditLog is a single audit trail entry.
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogFilter narrows an audit log listing.
type LogFilter struct {
	Actor    string
	Entity   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// ============================================================
// Health & operational metrics API responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// OpsOverview is returned by GET /v1/metrics/overview and feeds the
// dashboard screen.
type OpsOverview struct {
	TotalRequests      int64   `json:"totalRequests"`
	ErrorRate          float64 `json:"errorRate"`
	SimulationsRun     int64   `json:"simulationsRun"`
	TransfersValidated int64   `json:"transfersValidated"`
	TransfersRejected  int64   `json:"transfersRejected"`
	RenewalsCompleted  int64   `json:"renewalsCompleted"`
	RenewalsFailed     int64   `json:"renewalsFailed"`
	CacheHitRate       float64 `json:"cacheHitRate"`
	AdvisoryFailures   int64   `json:"advisoryFailures"`
	Period             string  `json:"period"`
}
