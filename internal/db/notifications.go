package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (db *DB) ListNotifications() ([]Notification, error) {
	rows, err := db.Query(`
		SELECT id, title, message, type, category, is_read, action_url, action_text, created_at
		FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Category,
			&n.IsRead, &n.ActionURL, &n.ActionText, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (db *DB) CreateNotification(n Notification) (*Notification, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	if n.Type == "" {
		n.Type = "info"
	}
	if n.Category == "" {
		n.Category = "system"
	}

	_, err := db.Exec(`
		INSERT INTO notifications (id, title, message, type, category, is_read, action_url, action_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Message, n.Type, n.Category, n.IsRead, n.ActionURL, n.ActionText, n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &n, nil
}

// SetNotificationRead flips the read flag on one notification.
func (db *DB) SetNotificationRead(id string, read bool) (*Notification, error) {
	res, err := db.Exec("UPDATE notifications SET is_read = ? WHERE id = ?", read, id)
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var n Notification
	err = db.QueryRow(`
		SELECT id, title, message, type, category, is_read, action_url, action_text, created_at
		FROM notifications WHERE id = ?`, id).
		Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Category,
			&n.IsRead, &n.ActionURL, &n.ActionText, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// MarkAllNotificationsRead marks every notification read and returns how many
// were still unread.
func (db *DB) MarkAllNotificationsRead() (int64, error) {
	res, err := db.Exec("UPDATE notifications SET is_read = 1 WHERE is_read = 0")
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
