package db

import (
	"database/sql"
	"fmt"
	"time"
)

func (db *DB) ListTestimonials() ([]Testimonial, error) {
	return db.queryTestimonials(`
		SELECT id, name, position, company, content, rating, avatar, status, created_at, updated_at
		FROM testimonials ORDER BY created_at DESC`)
}

// ListApprovedTestimonials returns only moderated-through testimonials,
// the set visible to anonymous and client callers.
func (db *DB) ListApprovedTestimonials() ([]Testimonial, error) {
	return db.queryTestimonials(`
		SELECT id, name, position, company, content, rating, avatar, status, created_at, updated_at
		FROM testimonials WHERE status = 'approved' ORDER BY created_at DESC`)
}

func (db *DB) queryTestimonials(query string, args ...any) ([]Testimonial, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Position, &t.Company, &t.Content,
			&t.Rating, &t.Avatar, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

func (db *DB) GetTestimonial(id string) (*Testimonial, error) {
	var t Testimonial
	err := db.QueryRow(`
		SELECT id, name, position, company, content, rating, avatar, status, created_at, updated_at
		FROM testimonials WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Position, &t.Company, &t.Content,
			&t.Rating, &t.Avatar, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (db *DB) CreateTestimonial(t Testimonial) (*Testimonial, error) {
	t.ID = NewStringID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Rating < 1 || t.Rating > 5 {
		t.Rating = 5
	}

	_, err := db.Exec(`
		INSERT INTO testimonials (id, name, position, company, content, rating, avatar, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Position, t.Company, t.Content, t.Rating, t.Avatar, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert testimonial: %w", err)
	}
	return &t, nil
}

// TestimonialUpdate carries a partial update; nil fields are left untouched.
type TestimonialUpdate struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Company  *string `json:"company"`
	Content  *string `json:"content"`
	Rating   *int    `json:"rating"`
	Avatar   *string `json:"avatar"`
	Status   *string `json:"status"`
}

func (db *DB) UpdateTestimonial(id string, upd TestimonialUpdate) (*Testimonial, error) {
	t, err := db.GetTestimonial(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Position != nil {
		t.Position = *upd.Position
	}
	if upd.Company != nil {
		t.Company = *upd.Company
	}
	if upd.Content != nil {
		t.Content = *upd.Content
	}
	if upd.Rating != nil {
		t.Rating = *upd.Rating
	}
	if upd.Avatar != nil {
		t.Avatar = *upd.Avatar
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	t.UpdatedAt = time.Now().UTC()

	_, err = db.Exec(`
		UPDATE testimonials SET name = ?, position = ?, company = ?, content = ?, rating = ?, avatar = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Position, t.Company, t.Content, t.Rating, t.Avatar, t.Status, t.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return t, nil
}

func (db *DB) DeleteTestimonial(id string) error {
	res, err := db.Exec("DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
