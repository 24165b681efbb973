package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func (db *DB) ListProjects() ([]Project, error) {
	rows, err := db.Query(`
		SELECT id, title, description, status, technologies, url, github_url, image_url, featured, created_at, updated_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (db *DB) GetProject(id string) (*Project, error) {
	row := db.QueryRow(`
		SELECT id, title, description, status, technologies, url, github_url, image_url, featured, created_at, updated_at
		FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// CreateProject inserts p, stamping id, createdAt and updatedAt.
func (db *DB) CreateProject(p Project) (*Project, error) {
	p.ID = NewStringID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "upcoming"
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}

	techs, err := json.Marshal(p.Technologies)
	if err != nil {
		return nil, fmt.Errorf("marshal technologies: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO projects (id, title, description, status, technologies, url, github_url, image_url, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Status, string(techs), p.URL, p.GithubURL, p.ImageURL, p.Featured, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

// ProjectUpdate carries a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Status       *string   `json:"status"`
	Technologies *[]string `json:"technologies"`
	URL          *string   `json:"url"`
	GithubURL    *string   `json:"githubUrl"`
	ImageURL     *string   `json:"imageUrl"`
	Featured     *bool     `json:"featured"`
}

func (db *DB) UpdateProject(id string, upd ProjectUpdate) (*Project, error) {
	p, err := db.GetProject(id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Technologies != nil {
		p.Technologies = *upd.Technologies
	}
	if upd.URL != nil {
		p.URL = *upd.URL
	}
	if upd.GithubURL != nil {
		p.GithubURL = *upd.GithubURL
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Featured != nil {
		p.Featured = *upd.Featured
	}
	p.UpdatedAt = time.Now().UTC()

	techs, err := json.Marshal(p.Technologies)
	if err != nil {
		return nil, fmt.Errorf("marshal technologies: %w", err)
	}

	_, err = db.Exec(`
		UPDATE projects SET title = ?, description = ?, status = ?, technologies = ?, url = ?, github_url = ?, image_url = ?, featured = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, p.Status, string(techs), p.URL, p.GithubURL, p.ImageURL, p.Featured, p.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (db *DB) DeleteProject(id string) error {
	res, err := db.Exec("DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var techs string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &techs,
		&p.URL, &p.GithubURL, &p.ImageURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if err := json.Unmarshal([]byte(techs), &p.Technologies); err != nil {
		return nil, fmt.Errorf("unmarshal technologies: %w", err)
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return &p, nil
}
