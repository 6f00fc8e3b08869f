package models

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// TokenResponse is the login response body. The shape is part of the wire
// contract: access_token plus token_type "bearer", nothing else.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is a flat single-message body
type MessageResponse struct {
	Message string `json:"message"`
}

// InfoResponse exposes the non-sensitive application settings
type InfoResponse struct {
	AppName    string `json:"app_name"`
	AdminEmail string `json:"admin_email"`
	DebugMode  bool   `json:"debug_mode"`
}

// TaskResponse carries the result of an offloaded blocking task
type TaskResponse struct {
	Result interface{} `json:"result"`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

// AuditLogListResponse wraps a page of audit log entries
type AuditLogListResponse struct {
	Logs   interface{} `json:"logs"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
}
