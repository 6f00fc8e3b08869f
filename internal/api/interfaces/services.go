package interfaces

import (
	"context"
	"time"

	"token-service/internal/database"
	"token-service/internal/database/repositories"
	"token-service/internal/events"
	"token-service/internal/token"
	"token-service/internal/worker"
	"token-service/pkg/config"
	"token-service/pkg/logger"
)

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(claims token.ClaimsSet, ttl time.Duration) (string, error)
	IssueDefault(claims token.ClaimsSet) (string, error)
	Verify(raw string) (token.ClaimsSet, error)
}

// Authenticator verifies username/password credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*database.User, error)
}

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	TokenService() TokenService
	Authenticator() Authenticator
	EventHub() *events.Hub
	WorkerPool() *worker.Pool
	UserRepository() *repositories.UserRepository
	AuditLogRepository() *repositories.AuditLogRepository
	IsHealthy() bool
}
