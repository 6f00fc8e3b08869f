package api

import (
	"database/sql"
	"fmt"

	"token-service/internal/api/interfaces"
	"token-service/internal/auth"
	"token-service/internal/database"
	"token-service/internal/database/repositories"
	"token-service/internal/events"
	"token-service/internal/token"
	"token-service/internal/worker"
	"token-service/pkg/config"
	"token-service/pkg/logger"

	"github.com/google/uuid"
)

// Services holds all application services and their dependencies
type Services struct {
	DB     *sql.DB
	Logger *logger.Logger
	Config *config.Config

	tokenService  *token.Service
	authenticator *auth.Service
	hub           *events.Hub
	pool          *worker.Pool

	userRepository     *repositories.UserRepository
	auditLogRepository *repositories.AuditLogRepository
}

// NewServices creates and wires all application services
func NewServices(db *sql.DB, log *logger.Logger, cfg *config.Config) (*Services, error) {
	tokenService, err := token.NewService(cfg.Security.JWTSecret, cfg.Security.JWTAlgorithm, cfg.Security.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	userRepository := repositories.NewUserRepository(db, cfg.Database.Type)
	auditLogRepository := repositories.NewAuditLogRepository(db, cfg.Database.Type)

	authenticator := auth.NewService(userRepository, cfg.Security.MaxLoginAttempts, cfg.Security.LockoutDuration, log)

	return &Services{
		DB:                 db,
		Logger:             log,
		Config:             cfg,
		tokenService:       tokenService,
		authenticator:      authenticator,
		hub:                events.NewHub(log),
		pool:               worker.NewPool(cfg.Worker.Workers, cfg.Worker.QueueSize, log),
		userRepository:     userRepository,
		auditLogRepository: auditLogRepository,
	}, nil
}

// Start brings up the background services and seeds the bootstrap admin.
func (s *Services) Start() error {
	if err := s.hub.Start(); err != nil {
		return fmt.Errorf("failed to start event hub: %w", err)
	}
	if err := s.pool.Start(); err != nil {
		s.hub.Stop()
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	if err := s.seedAdminUser(); err != nil {
		s.pool.Stop()
		s.hub.Stop()
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	s.Logger.Info("Application services started")
	return nil
}

// Stop shuts down the background services.
func (s *Services) Stop() {
	s.pool.Stop()
	s.hub.Stop()
	s.Logger.Info("Application services stopped")
}

// seedAdminUser creates the configured admin account if it does not exist.
func (s *Services) seedAdminUser() error {
	username := s.Config.Admin.Username
	password := s.Config.Admin.Password
	if username == "" || password == "" {
		s.Logger.Debug("No bootstrap admin configured, skipping seed")
		return nil
	}

	if _, err := s.userRepository.GetByUsername(username); err == nil {
		return nil
	}

	hash, err := s.authenticator.HashPassword(password)
	if err != nil {
		return err
	}

	user := &database.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        s.Config.App.AdminEmail,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := s.userRepository.Create(user); err != nil {
		return err
	}

	s.Logger.Info("Seeded bootstrap admin user %s", username)
	return nil
}

// GetLogger returns the logger instance
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

// GetConfig returns the configuration
func (s *Services) GetConfig() *config.Config {
	return s.Config
}

// TokenService returns the token issue/verify service
func (s *Services) TokenService() interfaces.TokenService {
	return s.tokenService
}

// Authenticator returns the credential verification service
func (s *Services) Authenticator() interfaces.Authenticator {
	return s.authenticator
}

// EventHub returns the security event hub
func (s *Services) EventHub() *events.Hub {
	return s.hub
}

// WorkerPool returns the blocking-task worker pool
func (s *Services) WorkerPool() *worker.Pool {
	return s.pool
}

// UserRepository returns the user repository
func (s *Services) UserRepository() *repositories.UserRepository {
	return s.userRepository
}

// AuditLogRepository returns the audit log repository
func (s *Services) AuditLogRepository() *repositories.AuditLogRepository {
	return s.auditLogRepository
}

// IsHealthy reports whether the database is reachable and the pool is running.
func (s *Services) IsHealthy() bool {
	if err := s.DB.Ping(); err != nil {
		s.Logger.Warning("Health check failed: %v", err)
		return false
	}
	return s.pool.IsRunning()
}
