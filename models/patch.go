// ABOUTME: Partial-update patch types for CRM entities
// ABOUTME: Nil fields are left untouched; patches double as PUT request bodies
package models

import "time"

type CustomerPatch struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Address      *string    `json:"address,omitempty"`
	CustomerType *string    `json:"customer_type,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	BookingCount *int       `json:"booking_count,omitempty"`
	TotalValue   *int64     `json:"total_value,omitempty"`
	LastBooking  *time.Time `json:"last_booking,omitempty"`
	Status       *string    `json:"status,omitempty"`
}

func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.CustomerType != nil {
		c.CustomerType = *p.CustomerType
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.BookingCount != nil {
		c.BookingCount = *p.BookingCount
	}
	if p.TotalValue != nil {
		c.TotalValue = *p.TotalValue
	}
	if p.LastBooking != nil {
		c.LastBooking = p.LastBooking
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

type LeadPatch struct {
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Source            *string    `json:"source,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	EstimatedValue    *int64     `json:"estimated_value,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	AssignedTo        *string    `json:"assigned_to,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Priority != nil {
		l.Priority = *p.Priority
	}
	if p.EstimatedValue != nil {
		l.EstimatedValue = *p.EstimatedValue
	}
	if p.ExpectedCloseDate != nil {
		l.ExpectedCloseDate = p.ExpectedCloseDate
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
}

type JobPatch struct {
	CustomerName   *string    `json:"customer_name,omitempty"`
	FromAddress    *string    `json:"from_address,omitempty"`
	ToAddress      *string    `json:"to_address,omitempty"`
	MoveDate       *time.Time `json:"move_date,omitempty"`
	MoveTime       *string    `json:"move_time,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	AssignedStaff  *[]string  `json:"assigned_staff,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	TotalPrice     *int64     `json:"total_price,omitempty"`
	Services       *[]string  `json:"services,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func (p JobPatch) Apply(j *Job) {
	if p.CustomerName != nil {
		j.CustomerName = *p.CustomerName
	}
	if p.FromAddress != nil {
		j.FromAddress = *p.FromAddress
	}
	if p.ToAddress != nil {
		j.ToAddress = *p.ToAddress
	}
	if p.MoveDate != nil {
		j.MoveDate = *p.MoveDate
	}
	if p.MoveTime != nil {
		j.MoveTime = *p.MoveTime
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Priority != nil {
		j.Priority = *p.Priority
	}
	if p.AssignedStaff != nil {
		j.AssignedStaff = *p.AssignedStaff
	}
	if p.EstimatedHours != nil {
		j.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		j.ActualHours = p.ActualHours
	}
	if p.TotalPrice != nil {
		j.TotalPrice = *p.TotalPrice
	}
	if p.Services != nil {
		j.Services = *p.Services
	}
	if p.Notes != nil {
		j.Notes = *p.Notes
	}
	if p.StartedAt != nil {
		j.StartedAt = p.StartedAt
	}
	if p.CompletedAt != nil {
		j.CompletedAt = p.CompletedAt
	}
}

type StaffPatch struct {
	Name   *string   `json:"name,omitempty"`
	Email  *string   `json:"email,omitempty"`
	Phone  *string   `json:"phone,omitempty"`
	Role   *string   `json:"role,omitempty"`
	Status *string   `json:"status,omitempty"`
	Skills *[]string `json:"skills,omitempty"`
	// CurrentJobs is replaced wholesale when set; assignment bookkeeping
	// happens in the store layer.
	CurrentJobs        *[]string `json:"current_jobs,omitempty"`
	TotalJobsCompleted *int      `json:"total_jobs_completed,omitempty"`
	Rating             *float64  `json:"rating,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
}

func (p StaffPatch) Apply(s *Staff) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Skills != nil {
		s.Skills = *p.Skills
	}
	if p.CurrentJobs != nil {
		s.CurrentJobs = *p.CurrentJobs
	}
	if p.TotalJobsCompleted != nil {
		s.TotalJobsCompleted = *p.TotalJobsCompleted
	}
	if p.Rating != nil {
		s.Rating = *p.Rating
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
}

type IssuePatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Type        *string    `json:"type,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (p IssuePatch) Apply(i *Issue) {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.Priority != nil {
		i.Priority = *p.Priority
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.AssignedTo != nil {
		i.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		i.DueDate = p.DueDate
	}
}

type ActivityPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (p ActivityPatch) Apply(a *Activity) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
	if p.DueDate != nil {
		a.DueDate = p.DueDate
	}
}

type DocumentPatch struct {
	Name        *string   `json:"name,omitempty"`
	FolderID    *string   `json:"folder_id,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}

func (p DocumentPatch) Apply(d *Document) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.FolderID != nil {
		d.FolderID = *p.FolderID
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Tags != nil {
		d.Tags = *p.Tags
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.IsPublic != nil {
		d.IsPublic = *p.IsPublic
	}
}
