package api

import (
	"encoding/json"
	"fmt"

	"github.com/amoran/portfolio/internal/auth"
	"github.com/amoran/portfolio/internal/db"
)

// mutationFunc decodes its own payload from the request's raw data. Returned
// errors are mapped onto HTTP statuses by writeMutationError.
type mutationFunc func(s *Server, c *auth.Claims, data json.RawMessage) (any, error)

var mutations = map[string]mutationFunc{
	"create-project":              adminOnly(createProject),
	"update-project":              adminOnly(updateProject),
	"delete-project":              adminOnly(deleteProject),
	"create-testimonial":          createTestimonial,
	"update-testimonial":          adminOnly(updateTestimonial),
	"delete-testimonial":          adminOnly(deleteTestimonial),
	"create-inquiry":              createInquiry,
	"update-inquiry":              adminOnly(updateInquiry),
	"update-inquiry-status":       adminOnly(updateInquiryStatus),
	"update-project-progress":     adminOnly(updateProjectProgress),
	"add-message":                 addMessage,
	"add-task":                    adminOnly(addTask),
	"update-task-status":          adminOnly(updateTaskStatus),
	"add-document":                adminOnly(addDocument),
	"sign-document":               signDocument,
	"add-team-member":             adminOnly(addTeamMember),
	"create-invoice":              adminOnly(createInvoice),
	"update-invoice-status":       adminOnly(updateInvoiceStatus),
	"mark-notification-read":      adminOnly(markNotificationRead),
	"mark-all-notifications-read": adminOnly(markAllNotificationsRead),
}

func adminOnly(fn mutationFunc) mutationFunc {
	return func(s *Server, c *auth.Claims, data json.RawMessage) (any, error) {
		if c == nil {
			return nil, errUnauthenticated
		}
		if !c.IsAdmin() {
			return nil, errForbidden
		}
		return fn(s, c, data)
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", errBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", errBadRequest, err)
	}
	return nil
}

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Projects

func createProject(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var p db.Project
	if err := decode(data, &p); err != nil {
		return nil, err
	}
	if p.Title == "" {
		return nil, badRequestf("title required")
	}
	return s.db.CreateProject(p)
}

func updateProject(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID string `json:"id"`
		db.ProjectUpdate
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, badRequestf("id required")
	}
	return s.db.UpdateProject(req.ID, req.ProjectUpdate)
}

func deleteProject(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if err := s.db.DeleteProject(req.ID); err != nil {
		return nil, err
	}
	return map[string]string{"id": req.ID}, nil
}

// Testimonials

func createTestimonial(s *Server, c *auth.Claims, data json.RawMessage) (any, error) {
	var t db.Testimonial
	if err := decode(data, &t); err != nil {
		return nil, err
	}
	if t.Name == "" || t.Content == "" {
		return nil, badRequestf("name and content required")
	}
	// Public submissions always enter moderation; only admins may pre-set a status.
	if !c.IsAdmin() {
		t.Status = "pending"
	} else if t.Status != "" && !oneOf(t.Status, "pending", "approved", "rejected") {
		return nil, badRequestf("invalid status %q", t.Status)
	}
	return s.db.CreateTestimonial(t)
}

func updateTestimonial(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID string `json:"id"`
		db.TestimonialUpdate
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, badRequestf("id required")
	}
	if req.Status != nil && !oneOf(*req.Status, "pending", "approved", "rejected") {
		return nil, badRequestf("invalid status %q", *req.Status)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, badRequestf("rating must be 1-5")
	}
	return s.db.UpdateTestimonial(req.ID, req.TestimonialUpdate)
}

func deleteTestimonial(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if err := s.db.DeleteTestimonial(req.ID); err != nil {
		return nil, err
	}
	return map[string]string{"id": req.ID}, nil
}

// Inquiries

func createInquiry(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var inq db.Inquiry
	if err := decode(data, &inq); err != nil {
		return nil, err
	}
	if inq.ClientName == "" || inq.ClientEmail == "" || inq.ProjectTitle == "" {
		return nil, badRequestf("clientName, clientEmail and projectTitle required")
	}
	if inq.Status != "" && !oneOf(inq.Status, "pending", "in-progress", "completed", "cancelled") {
		return nil, badRequestf("invalid status %q", inq.Status)
	}
	if inq.Priority != "" && !oneOf(inq.Priority, "low", "medium", "high", "urgent") {
		return nil, badRequestf("invalid priority %q", inq.Priority)
	}
	created, _, err := s.db.CreateInquiry(inq)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func updateInquiry(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID int64 `json:"id"`
		db.InquiryUpdate
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Status != nil && !oneOf(*req.Status, "pending", "in-progress", "completed", "cancelled") {
		return nil, badRequestf("invalid status %q", *req.Status)
	}
	if req.Priority != nil && !oneOf(*req.Priority, "low", "medium", "high", "urgent") {
		return nil, badRequestf("invalid priority %q", *req.Priority)
	}
	return s.db.UpdateInquiry(req.ID, req.InquiryUpdate)
}

func updateInquiryStatus(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if !oneOf(req.Status, "pending", "in-progress", "completed", "cancelled") {
		return nil, badRequestf("invalid status %q", req.Status)
	}
	return s.db.SetInquiryStatus(req.ID, req.Status)
}

func updateProjectProgress(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
		Progress  int   `json:"progress"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return s.db.SetInquiryProgress(req.InquiryID, req.Progress)
}

// addMessage is reachable by admins and by the inquiry's own client.
func addMessage(s *Server, c *auth.Claims, data json.RawMessage) (any, error) {
	if c == nil {
		return nil, errUnauthenticated
	}
	var req struct {
		InquiryID int64  `json:"inquiryId"`
		Message   string `json:"message"`
		Sender    string `json:"sender"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, badRequestf("message required")
	}

	if !c.IsAdmin() {
		inq, err := s.db.GetInquiry(req.InquiryID)
		if err != nil {
			return nil, err
		}
		if inq.ClientEmail != c.Email {
			return nil, errForbidden
		}
		req.Sender = auth.RoleClient
	}
	if !oneOf(req.Sender, "client", "admin") {
		return nil, badRequestf("invalid sender %q", req.Sender)
	}
	return s.db.AddMessage(req.InquiryID, req.Sender, req.Message)
}

func addTask(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
		db.Task
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, badRequestf("title required")
	}
	if req.Task.Status != "" && !oneOf(req.Task.Status, "pending", "in-progress", "completed") {
		return nil, badRequestf("invalid status %q", req.Task.Status)
	}
	return s.db.AddTask(req.InquiryID, req.Task)
}

func updateTaskStatus(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64  `json:"inquiryId"`
		TaskID    int64  `json:"taskId"`
		Status    string `json:"status"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if !oneOf(req.Status, "pending", "in-progress", "completed") {
		return nil, badRequestf("invalid status %q", req.Status)
	}
	return s.db.UpdateTaskStatus(req.InquiryID, req.TaskID, req.Status)
}

func addDocument(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
		db.Document
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, badRequestf("name required")
	}
	if req.Type != "" && !oneOf(req.Type, "contract", "agreement", "nda", "proposal") {
		return nil, badRequestf("invalid type %q", req.Type)
	}
	if req.Document.Status != "" && !oneOf(req.Document.Status, "draft", "pending-signature", "signed", "expired") {
		return nil, badRequestf("invalid status %q", req.Document.Status)
	}
	return s.db.AddDocument(req.InquiryID, req.Document)
}

// signDocument is reachable by admins and by the inquiry's own client,
// who is usually the signing party.
func signDocument(s *Server, c *auth.Claims, data json.RawMessage) (any, error) {
	if c == nil {
		return nil, errUnauthenticated
	}
	var req struct {
		InquiryID  int64  `json:"inquiryId"`
		DocumentID int64  `json:"documentId"`
		SignedBy   string `json:"signedBy"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}

	if !c.IsAdmin() {
		inq, err := s.db.GetInquiry(req.InquiryID)
		if err != nil {
			return nil, err
		}
		if inq.ClientEmail != c.Email {
			return nil, errForbidden
		}
	}
	if req.SignedBy == "" {
		req.SignedBy = c.Email
	}
	return s.db.SignDocument(req.InquiryID, req.DocumentID, req.SignedBy)
}

func addTeamMember(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
		db.TeamMember
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, badRequestf("name required")
	}
	return s.db.AddTeamMember(req.InquiryID, req.TeamMember)
}

func createInvoice(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64 `json:"inquiryId"`
		db.Invoice
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, badRequestf("amount must not be negative")
	}
	if req.Invoice.Status != "" && !oneOf(req.Invoice.Status, "draft", "sent", "paid", "overdue") {
		return nil, badRequestf("invalid status %q", req.Invoice.Status)
	}
	return s.db.CreateInvoice(req.InquiryID, req.Invoice)
}

func updateInvoiceStatus(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		InquiryID int64  `json:"inquiryId"`
		InvoiceID int64  `json:"invoiceId"`
		Status    string `json:"status"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if !oneOf(req.Status, "draft", "sent", "paid", "overdue") {
		return nil, badRequestf("invalid status %q", req.Status)
	}
	return s.db.UpdateInvoiceStatus(req.InquiryID, req.InvoiceID, req.Status)
}

// Notifications

func markNotificationRead(s *Server, _ *auth.Claims, data json.RawMessage) (any, error) {
	var req struct {
		ID     string `json:"id"`
		IsRead *bool  `json:"isRead"`
	}
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, badRequestf("id required")
	}
	read := true
	if req.IsRead != nil {
		read = *req.IsRead
	}
	return s.db.SetNotificationRead(req.ID, read)
}

func markAllNotificationsRead(s *Server, _ *auth.Claims, _ json.RawMessage) (any, error) {
	n, err := s.db.MarkAllNotificationsRead()
	if err != nil {
		return nil, err
	}
	return map[string]int64{"updated": n}, nil
}
