package repositories

import (
	"database/sql"
	"time"

	"token-service/internal/database"
)

type AuditLogRepository struct {
	db     *sql.DB
	driver string
}

func NewAuditLogRepository(db *sql.DB, driver string) *AuditLogRepository {
	return &AuditLogRepository{db: db, driver: driver}
}

// InsertAuditLog inserts a new audit log entry
func (r *AuditLogRepository) InsertAuditLog(log *database.AuditLog) error {
	query := rebind(r.driver, `
        INSERT INTO audit_logs (action, username, details, ip_address)
        VALUES (?, ?, ?, ?)
    `)
	result, err := r.db.Exec(query, log.Action, log.Username, log.Details, log.IPAddress)
	if err != nil {
		return err
	}

	// lib/pq does not support LastInsertId
	if r.driver != "postgres" {
		if id, err := result.LastInsertId(); err == nil {
			log.ID = id
		}
	}

	return nil
}

// GetAuditLogs retrieves audit logs with pagination and filtering
func (r *AuditLogRepository) GetAuditLogs(limit, offset int, action, username string, startTime, endTime *time.Time) ([]database.AuditLog, error) {
	query := `
        SELECT id, action, username, details, ip_address, created_at
        FROM audit_logs
        WHERE 1=1
    `
	args := []interface{}{}

	if action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}

	if username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	if startTime != nil {
		query += " AND created_at >= ?"
		args = append(args, startTime)
	}

	if endTime != nil {
		query += " AND created_at <= ?"
		args = append(args, endTime)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(rebind(r.driver, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []database.AuditLog
	for rows.Next() {
		var log database.AuditLog
		err := rows.Scan(&log.ID, &log.Action, &log.Username,
			&log.Details, &log.IPAddress, &log.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// GetRecentAuditLogs gets the most recent audit logs
func (r *AuditLogRepository) GetRecentAuditLogs(limit int) ([]database.AuditLog, error) {
	return r.GetAuditLogs(limit, 0, "", "", nil, nil)
}
