package db

import "time"

// JSON field names follow the wire shapes the dashboard front end expects.

type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Technologies []string  `json:"technologies"`
	URL          string    `json:"url,omitempty"`
	GithubURL    string    `json:"githubUrl,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Company   string    `json:"company"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Avatar    string    `json:"avatar,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Inquiry struct {
	ID                 int64        `json:"id"`
	ClientName         string       `json:"clientName"`
	ClientEmail        string       `json:"clientEmail"`
	ClientPhone        string       `json:"clientPhone,omitempty"`
	ProjectTitle       string       `json:"projectTitle"`
	ProjectDescription string       `json:"projectDescription"`
	ProjectType        string       `json:"projectType,omitempty"`
	Budget             string       `json:"budget,omitempty"`
	Timeline           string       `json:"timeline,omitempty"`
	Status             string       `json:"status"`
	Priority           string       `json:"priority"`
	Progress           int          `json:"progress"`
	Messages           []Message    `json:"messages"`
	Tasks              []Task       `json:"tasks"`
	Documents          []Document   `json:"documents"`
	TeamMembers        []TeamMember `json:"teamMembers"`
	Invoices           []Invoice    `json:"invoices"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

type Message struct {
	ID        int64     `json:"id"`
	InquiryID int64     `json:"inquiryId"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Task struct {
	ID          int64     `json:"id"`
	InquiryID   int64     `json:"inquiryId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"`
	DueDate     string    `json:"dueDate,omitempty"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Document struct {
	ID        int64      `json:"id"`
	InquiryID int64      `json:"inquiryId"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	URL       string     `json:"url,omitempty"`
	SignedBy  string     `json:"signedBy,omitempty"`
	SignedAt  *time.Time `json:"signedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type TeamMember struct {
	ID        int64     `json:"id"`
	InquiryID int64     `json:"inquiryId"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Invoice struct {
	ID        int64      `json:"id"`
	InquiryID int64      `json:"inquiryId"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"`
	DueDate   string     `json:"dueDate,omitempty"`
	Items     []LineItem `json:"items"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Category   string    `json:"category"`
	IsRead     bool      `json:"isRead"`
	ActionURL  string    `json:"actionUrl,omitempty"`
	ActionText string    `json:"actionText,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
