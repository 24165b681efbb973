package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (db *DB) ListInquiries() ([]Inquiry, error) {
	return db.queryInquiries(`
		SELECT id, client_name, client_email, client_phone, project_title, project_description,
			project_type, budget, timeline, status, priority, progress, created_at, updated_at
		FROM inquiries ORDER BY created_at DESC`)
}

// ListInquiriesByEmail returns only the inquiries submitted by the given
// client email. This is the server-side scoping the dashboard relies on.
func (db *DB) ListInquiriesByEmail(email string) ([]Inquiry, error) {
	return db.queryInquiries(`
		SELECT id, client_name, client_email, client_phone, project_title, project_description,
			project_type, budget, timeline, status, priority, progress, created_at, updated_at
		FROM inquiries WHERE client_email = ? ORDER BY created_at DESC`, email)
}

func (db *DB) queryInquiries(query string, args ...any) ([]Inquiry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []Inquiry
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(&inq.ID, &inq.ClientName, &inq.ClientEmail, &inq.ClientPhone,
			&inq.ProjectTitle, &inq.ProjectDescription, &inq.ProjectType, &inq.Budget,
			&inq.Timeline, &inq.Status, &inq.Priority, &inq.Progress,
			&inq.CreatedAt, &inq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range inquiries {
		if err := db.loadInquiryChildren(&inquiries[i]); err != nil {
			return nil, err
		}
	}
	return inquiries, nil
}

func (db *DB) GetInquiry(id int64) (*Inquiry, error) {
	var inq Inquiry
	err := db.QueryRow(`
		SELECT id, client_name, client_email, client_phone, project_title, project_description,
			project_type, budget, timeline, status, priority, progress, created_at, updated_at
		FROM inquiries WHERE id = ?`, id).
		Scan(&inq.ID, &inq.ClientName, &inq.ClientEmail, &inq.ClientPhone,
			&inq.ProjectTitle, &inq.ProjectDescription, &inq.ProjectType, &inq.Budget,
			&inq.Timeline, &inq.Status, &inq.Priority, &inq.Progress,
			&inq.CreatedAt, &inq.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	if err := db.loadInquiryChildren(&inq); err != nil {
		return nil, err
	}
	return &inq, nil
}

func (db *DB) loadInquiryChildren(inq *Inquiry) error {
	inq.Messages = []Message{}
	inq.Tasks = []Task{}
	inq.Documents = []Document{}
	inq.TeamMembers = []TeamMember{}
	inq.Invoices = []Invoice{}

	rows, err := db.Query(`
		SELECT id, inquiry_id, sender, message, timestamp
		FROM inquiry_messages WHERE inquiry_id = ? ORDER BY timestamp, id`, inq.ID)
	if err != nil {
		return fmt.Errorf("query messages: %w", err)
	}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.InquiryID, &m.Sender, &m.Message, &m.Timestamp); err != nil {
			rows.Close()
			return fmt.Errorf("scan message: %w", err)
		}
		inq.Messages = append(inq.Messages, m)
	}
	rows.Close()

	rows, err = db.Query(`
		SELECT id, inquiry_id, title, description, status, assignee, due_date, priority, created_at
		FROM inquiry_tasks WHERE inquiry_id = ? ORDER BY created_at, id`, inq.ID)
	if err != nil {
		return fmt.Errorf("query tasks: %w", err)
	}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.InquiryID, &t.Title, &t.Description, &t.Status,
			&t.Assignee, &t.DueDate, &t.Priority, &t.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan task: %w", err)
		}
		inq.Tasks = append(inq.Tasks, t)
	}
	rows.Close()

	rows, err = db.Query(`
		SELECT id, inquiry_id, name, type, status, url, signed_by, signed_at, created_at
		FROM inquiry_documents WHERE inquiry_id = ? ORDER BY created_at, id`, inq.ID)
	if err != nil {
		return fmt.Errorf("query documents: %w", err)
	}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.InquiryID, &d.Name, &d.Type, &d.Status,
			&d.URL, &d.SignedBy, &d.SignedAt, &d.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan document: %w", err)
		}
		inq.Documents = append(inq.Documents, d)
	}
	rows.Close()

	rows, err = db.Query(`
		SELECT id, inquiry_id, name, role, email, avatar, created_at
		FROM inquiry_team_members WHERE inquiry_id = ? ORDER BY created_at, id`, inq.ID)
	if err != nil {
		return fmt.Errorf("query team members: %w", err)
	}
	for rows.Next() {
		var tm TeamMember
		if err := rows.Scan(&tm.ID, &tm.InquiryID, &tm.Name, &tm.Role, &tm.Email, &tm.Avatar, &tm.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan team member: %w", err)
		}
		inq.TeamMembers = append(inq.TeamMembers, tm)
	}
	rows.Close()

	rows, err = db.Query(`
		SELECT id, inquiry_id, amount, status, due_date, items, paid_at, created_at
		FROM inquiry_invoices WHERE inquiry_id = ? ORDER BY created_at, id`, inq.ID)
	if err != nil {
		return fmt.Errorf("query invoices: %w", err)
	}
	for rows.Next() {
		var inv Invoice
		var items string
		if err := rows.Scan(&inv.ID, &inv.InquiryID, &inv.Amount, &inv.Status,
			&inv.DueDate, &items, &inv.PaidAt, &inv.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan invoice: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
			rows.Close()
			return fmt.Errorf("unmarshal invoice items: %w", err)
		}
		if inv.Items == nil {
			inv.Items = []LineItem{}
		}
		inq.Invoices = append(inq.Invoices, inv)
	}
	rows.Close()

	return nil
}

// CreateInquiry inserts the inquiry and its derived notification in one
// transaction, so a new inquiry always has a matching notification.
func (db *DB) CreateInquiry(inq Inquiry) (*Inquiry, *Notification, error) {
	inq.ID = NewID()
	now := time.Now().UTC()
	inq.CreatedAt = now
	inq.UpdatedAt = now
	if inq.Status == "" {
		inq.Status = "pending"
	}
	if inq.Priority == "" {
		inq.Priority = "medium"
	}

	n := Notification{
		ID:         uuid.NewString(),
		Title:      "New project inquiry",
		Message:    fmt.Sprintf("%s submitted a new inquiry: %s", inq.ClientName, inq.ProjectTitle),
		Type:       "info",
		Category:   "inquiry",
		ActionURL:  fmt.Sprintf("/admin/inquiries/%d", inq.ID),
		ActionText: "View inquiry",
		CreatedAt:  now,
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO inquiries (id, client_name, client_email, client_phone, project_title, project_description,
			project_type, budget, timeline, status, priority, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inq.ID, inq.ClientName, inq.ClientEmail, inq.ClientPhone, inq.ProjectTitle, inq.ProjectDescription,
		inq.ProjectType, inq.Budget, inq.Timeline, inq.Status, inq.Priority, inq.Progress,
		inq.CreatedAt, inq.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert inquiry: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO notifications (id, title, message, type, category, is_read, action_url, action_text, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		n.ID, n.Title, n.Message, n.Type, n.Category, n.ActionURL, n.ActionText, n.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	inq.Messages = []Message{}
	inq.Tasks = []Task{}
	inq.Documents = []Document{}
	inq.TeamMembers = []TeamMember{}
	inq.Invoices = []Invoice{}
	return &inq, &n, nil
}

// InquiryUpdate carries a partial update of the inquiry's scalar fields.
type InquiryUpdate struct {
	ClientName         *string `json:"clientName"`
	ClientEmail        *string `json:"clientEmail"`
	ClientPhone        *string `json:"clientPhone"`
	ProjectTitle       *string `json:"projectTitle"`
	ProjectDescription *string `json:"projectDescription"`
	ProjectType        *string `json:"projectType"`
	Budget             *string `json:"budget"`
	Timeline           *string `json:"timeline"`
	Status             *string `json:"status"`
	Priority           *string `json:"priority"`
}

func (db *DB) UpdateInquiry(id int64, upd InquiryUpdate) (*Inquiry, error) {
	inq, err := db.GetInquiry(id)
	if err != nil {
		return nil, err
	}

	if upd.ClientName != nil {
		inq.ClientName = *upd.ClientName
	}
	if upd.ClientEmail != nil {
		inq.ClientEmail = *upd.ClientEmail
	}
	if upd.ClientPhone != nil {
		inq.ClientPhone = *upd.ClientPhone
	}
	if upd.ProjectTitle != nil {
		inq.ProjectTitle = *upd.ProjectTitle
	}
	if upd.ProjectDescription != nil {
		inq.ProjectDescription = *upd.ProjectDescription
	}
	if upd.ProjectType != nil {
		inq.ProjectType = *upd.ProjectType
	}
	if upd.Budget != nil {
		inq.Budget = *upd.Budget
	}
	if upd.Timeline != nil {
		inq.Timeline = *upd.Timeline
	}
	if upd.Status != nil {
		inq.Status = *upd.Status
	}
	if upd.Priority != nil {
		inq.Priority = *upd.Priority
	}
	inq.UpdatedAt = time.Now().UTC()

	_, err = db.Exec(`
		UPDATE inquiries SET client_name = ?, client_email = ?, client_phone = ?, project_title = ?,
			project_description = ?, project_type = ?, budget = ?, timeline = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?`,
		inq.ClientName, inq.ClientEmail, inq.ClientPhone, inq.ProjectTitle,
		inq.ProjectDescription, inq.ProjectType, inq.Budget, inq.Timeline,
		inq.Status, inq.Priority, inq.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return inq, nil
}

func (db *DB) SetInquiryStatus(id int64, status string) (*Inquiry, error) {
	res, err := db.Exec("UPDATE inquiries SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("set inquiry status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetInquiry(id)
}

// SetInquiryProgress clamps progress to 0-100.
func (db *DB) SetInquiryProgress(id int64, progress int) (*Inquiry, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	res, err := db.Exec("UPDATE inquiries SET progress = ?, updated_at = ? WHERE id = ?",
		progress, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("set inquiry progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetInquiry(id)
}

// nestedInsert runs fn inside a transaction that also bumps the parent
// inquiry's updated_at. Returns ErrNotFound when the inquiry is missing.
func (db *DB) nestedInsert(inquiryID int64, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE inquiries SET updated_at = ? WHERE id = ?",
		time.Now().UTC(), inquiryID)
	if err != nil {
		return fmt.Errorf("touch inquiry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) AddMessage(inquiryID int64, sender, text string) (*Inquiry, error) {
	m := Message{ID: NewID(), InquiryID: inquiryID, Sender: sender, Message: text, Timestamp: time.Now().UTC()}
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO inquiry_messages (id, inquiry_id, sender, message, timestamp)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.InquiryID, m.Sender, m.Message, m.Timestamp)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) AddTask(inquiryID int64, t Task) (*Inquiry, error) {
	t.ID = NewID()
	t.InquiryID = inquiryID
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO inquiry_tasks (id, inquiry_id, title, description, status, assignee, due_date, priority, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.InquiryID, t.Title, t.Description, t.Status, t.Assignee, t.DueDate, t.Priority, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) UpdateTaskStatus(inquiryID, taskID int64, status string) (*Inquiry, error) {
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE inquiry_tasks SET status = ? WHERE id = ? AND inquiry_id = ?",
			status, taskID, inquiryID)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) AddDocument(inquiryID int64, d Document) (*Inquiry, error) {
	d.ID = NewID()
	d.InquiryID = inquiryID
	d.CreatedAt = time.Now().UTC()
	if d.Type == "" {
		d.Type = "contract"
	}
	if d.Status == "" {
		d.Status = "draft"
	}
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO inquiry_documents (id, inquiry_id, name, type, status, url, signed_by, signed_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.InquiryID, d.Name, d.Type, d.Status, d.URL, d.SignedBy, d.SignedAt, d.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) SignDocument(inquiryID, documentID int64, signedBy string) (*Inquiry, error) {
	now := time.Now().UTC()
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE inquiry_documents SET status = 'signed', signed_by = ?, signed_at = ?
			WHERE id = ? AND inquiry_id = ?`,
			signedBy, now, documentID, inquiryID)
		if err != nil {
			return fmt.Errorf("sign document: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) AddTeamMember(inquiryID int64, tm TeamMember) (*Inquiry, error) {
	tm.ID = NewID()
	tm.InquiryID = inquiryID
	tm.CreatedAt = time.Now().UTC()
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO inquiry_team_members (id, inquiry_id, name, role, email, avatar, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tm.ID, tm.InquiryID, tm.Name, tm.Role, tm.Email, tm.Avatar, tm.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert team member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) CreateInvoice(inquiryID int64, inv Invoice) (*Inquiry, error) {
	inv.ID = NewID()
	inv.InquiryID = inquiryID
	inv.CreatedAt = time.Now().UTC()
	if inv.Status == "" {
		inv.Status = "draft"
	}
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice items: %w", err)
	}
	err = db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO inquiry_invoices (id, inquiry_id, amount, status, due_date, items, paid_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.InquiryID, inv.Amount, inv.Status, inv.DueDate, string(items), inv.PaidAt, inv.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}

func (db *DB) UpdateInvoiceStatus(inquiryID, invoiceID int64, status string) (*Inquiry, error) {
	var paidAt any
	if status == "paid" {
		paidAt = time.Now().UTC()
	}
	err := db.nestedInsert(inquiryID, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE inquiry_invoices SET status = ?, paid_at = COALESCE(?, paid_at)
			WHERE id = ? AND inquiry_id = ?`,
			status, paidAt, invoiceID, inquiryID)
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetInquiry(inquiryID)
}
