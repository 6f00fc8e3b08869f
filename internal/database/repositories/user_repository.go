package repositories

import (
	"database/sql"

	"token-service/internal/database"
)

type UserRepository struct {
	db     *sql.DB
	driver string
}

func NewUserRepository(db *sql.DB, driver string) *UserRepository {
	return &UserRepository{db: db, driver: driver}
}

func (r *UserRepository) Create(user *database.User) error {
	query := rebind(r.driver, `
        INSERT INTO users (id, username, email, password_hash, role)
        VALUES (?, ?, ?, ?, ?)
    `)
	_, err := r.db.Exec(query, user.ID, user.Username, user.Email,
		user.PasswordHash, user.Role)
	return err
}

func (r *UserRepository) GetByUsername(username string) (*database.User, error) {
	query := rebind(r.driver, `
        SELECT id, username, email, password_hash, role, is_active,
               last_login, created_at, updated_at
        FROM users
        WHERE username = ? AND is_active = true
    `)

	var user database.User
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID string) (*database.User, error) {
	query := rebind(r.driver, `
        SELECT id, username, email, password_hash, role, is_active,
               last_login, created_at, updated_at
        FROM users
        WHERE id = ?
    `)

	var user database.User
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(userID string) error {
	query := rebind(r.driver, `
        UPDATE users
        SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `)
	_, err := r.db.Exec(query, userID)
	return err
}

// UpdatePassword updates user password
func (r *UserRepository) UpdatePassword(userID, passwordHash string) error {
	query := rebind(r.driver, `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	_, err := r.db.Exec(query, passwordHash, userID)
	return err
}

// Deactivate disables a user without deleting the row
func (r *UserRepository) Deactivate(userID string) error {
	query := rebind(r.driver, `UPDATE users SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	_, err := r.db.Exec(query, userID)
	return err
}
