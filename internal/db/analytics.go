package db

import "fmt"

// Analytics is the dashboard summary returned by GET ?type=analytics.
type Analytics struct {
	TotalProjects       int            `json:"totalProjects"`
	ProjectsByStatus    map[string]int `json:"projectsByStatus"`
	TotalInquiries      int            `json:"totalInquiries"`
	InquiriesByStatus   map[string]int `json:"inquiriesByStatus"`
	TotalTestimonials   int            `json:"totalTestimonials"`
	PendingTestimonials int            `json:"pendingTestimonials"`
	UnreadNotifications int            `json:"unreadNotifications"`
}

func (db *DB) Analytics() (*Analytics, error) {
	a := &Analytics{
		ProjectsByStatus:  map[string]int{},
		InquiriesByStatus: map[string]int{},
	}

	rows, err := db.Query("SELECT status, COUNT(*) FROM projects GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, err
		}
		a.ProjectsByStatus[status] = n
		a.TotalProjects += n
	}
	rows.Close()

	rows, err = db.Query("SELECT status, COUNT(*) FROM inquiries GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count inquiries: %w", err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, err
		}
		a.InquiriesByStatus[status] = n
		a.TotalInquiries += n
	}
	rows.Close()

	if err := db.QueryRow("SELECT COUNT(*) FROM testimonials").Scan(&a.TotalTestimonials); err != nil {
		return nil, fmt.Errorf("count testimonials: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM testimonials WHERE status = 'pending'").Scan(&a.PendingTestimonials); err != nil {
		return nil, fmt.Errorf("count pending testimonials: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM notifications WHERE is_read = 0").Scan(&a.UnreadNotifications); err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return a, nil
}
