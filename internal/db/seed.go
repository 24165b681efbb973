package db

import "fmt"

// Seed inserts the default records into any empty collection. Inquiries are
// never seeded; they only come from client submissions.
func (db *DB) Seed() error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n); err != nil {
		return fmt.Errorf("count projects: %w", err)
	}
	if n == 0 {
		for _, p := range defaultProjects {
			if _, err := db.CreateProject(p); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM testimonials").Scan(&n); err != nil {
		return fmt.Errorf("count testimonials: %w", err)
	}
	if n == 0 {
		for _, t := range defaultTestimonials {
			if _, err := db.CreateTestimonial(t); err != nil {
				return fmt.Errorf("seed testimonial %q: %w", t.Name, err)
			}
		}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&n); err != nil {
		return fmt.Errorf("count notifications: %w", err)
	}
	if n == 0 {
		if _, err := db.CreateNotification(Notification{
			Title:    "Welcome",
			Message:  "Your portfolio backend is up and running.",
			Type:     "success",
			Category: "system",
		}); err != nil {
			return fmt.Errorf("seed notification: %w", err)
		}
	}

	return nil
}

var defaultProjects = []Project{
	{
		Title:        "Personal Portfolio",
		Description:  "This very site: a portfolio with an admin and client dashboard.",
		Status:       "live",
		Technologies: []string{"Go", "SQLite"},
		URL:          "https://example.dev",
		GithubURL:    "https://github.com/amoran/portfolio",
		Featured:     true,
	},
	{
		Title:        "Realtime Chat",
		Description:  "Websocket chat with rooms and presence.",
		Status:       "in-progress",
		Technologies: []string{"Go", "WebSocket", "Redis"},
	},
	{
		Title:        "Invoice Generator",
		Description:  "Small tool that renders invoices to PDF.",
		Status:       "upcoming",
		Technologies: []string{"Go"},
	},
}

var defaultTestimonials = []Testimonial{
	{
		Name:     "Laura Chen",
		Position: "CTO",
		Company:  "Acme Labs",
		Content:  "Delivered ahead of schedule and kept us informed the whole way.",
		Rating:   5,
		Status:   "approved",
	},
	{
		Name:     "Marco Ruiz",
		Position: "Founder",
		Company:  "Ruiz Consulting",
		Content:  "Great communication and solid engineering.",
		Rating:   5,
		Status:   "approved",
	},
}
