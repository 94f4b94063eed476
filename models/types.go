// ABOUTME: Data models for Nordflytt CRM entities
// ABOUTME: Defines Customer, Lead, Job, Staff, Issue, Document and friends
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type Customer struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	CustomerType string     `json:"customer_type"`
	Notes        string     `json:"notes,omitempty"`
	BookingCount int        `json:"booking_count"`
	TotalValue   int64      `json:"total_value"`
	LastBooking  *time.Time `json:"last_booking,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Lead struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Source            string     `json:"source"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	EstimatedValue    int64      `json:"estimated_value"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	AssignedTo        string     `json:"assigned_to,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Activities        []Activity `json:"activities,omitempty"`
}

type Job struct {
	ID             string     `json:"id"`
	BookingNumber  string     `json:"booking_number"`
	CustomerID     string     `json:"customer_id"`
	CustomerName   string     `json:"customer_name,omitempty"`
	CustomerType   string     `json:"customer_type,omitempty"`
	FromAddress    string     `json:"from_address"`
	ToAddress      string     `json:"to_address"`
	MoveDate       time.Time  `json:"move_date"`
	MoveTime       string     `json:"move_time,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedStaff  []string   `json:"assigned_staff,omitempty"`
	EstimatedHours float64    `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	TotalPrice     int64      `json:"total_price"`
	Services       []string   `json:"services,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Staff struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	HireDate           time.Time `json:"hire_date"`
	Skills             []string  `json:"skills,omitempty"`
	CurrentJobs        []string  `json:"current_jobs,omitempty"`
	TotalJobsCompleted int       `json:"total_jobs_completed"`
	Rating             float64   `json:"rating,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Issue struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type"`
	ReportedBy  string     `json:"reported_by"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CustomerID  string     `json:"customer_id,omitempty"`
	JobID       string     `json:"job_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Activity struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	EntityType  string     `json:"entity_type,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Read       bool      `json:"read"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Document struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	OriginalName     string     `json:"original_name,omitempty"`
	FileType         string     `json:"file_type,omitempty"`
	FileSize         int64      `json:"file_size,omitempty"`
	MimeType         string     `json:"mime_type,omitempty"`
	URL              string     `json:"url,omitempty"`
	ThumbnailURL     string     `json:"thumbnail_url,omitempty"`
	FolderID         string     `json:"folder_id,omitempty"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags,omitempty"`
	Description      string     `json:"description,omitempty"`
	UploadedBy       string     `json:"uploaded_by,omitempty"`
	LinkedEntityType string     `json:"linked_entity_type,omitempty"`
	LinkedEntityID   string     `json:"linked_entity_id,omitempty"`
	LinkedEntityName string     `json:"linked_entity_name,omitempty"`
	IsPublic         bool       `json:"is_public"`
	DownloadCount    int        `json:"download_count"`
	LastDownloaded   *time.Time `json:"last_downloaded,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Folder struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	ParentID      string    `json:"parent_id,omitempty"`
	Path          string    `json:"path"`
	Color         string    `json:"color,omitempty"`
	DocumentCount int       `json:"document_count"`
	TotalSize     int64     `json:"total_size"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type DashboardStats struct {
	TotalCustomers         int        `json:"total_customers"`
	TotalLeads             int        `json:"total_leads"`
	ActiveJobs             int        `json:"active_jobs"`
	CompletedJobsThisMonth int        `json:"completed_jobs_this_month"`
	TotalRevenue           int64      `json:"total_revenue"`
	RevenueThisMonth       int64      `json:"revenue_this_month"`
	ConversionRate         float64    `json:"conversion_rate"`
	AvgJobValue            int64      `json:"avg_job_value"`
	UpcomingJobs           []Job      `json:"upcoming_jobs,omitempty"`
	RecentActivities       []Activity `json:"recent_activities,omitempty"`
	CriticalIssues         []Issue    `json:"critical_issues,omitempty"`
}

// Lead pipeline stages.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusProposal    = "proposal"
	LeadStatusNegotiation = "negotiation"
	LeadStatusClosedWon   = "closed_won"
	LeadStatusClosedLost  = "closed_lost"
)

// Lead sources.
const (
	SourceWebsite   = "website"
	SourceReferral  = "referral"
	SourceMarketing = "marketing"
	SourceColdCall  = "cold_call"
	SourceOther     = "other"
)

// Job workflow statuses.
const (
	JobStatusScheduled = "scheduled"
	JobStatusConfirmed = "confirmed"
	JobStatusOnRoute   = "on_route"
	JobStatusArrived   = "arrived"
	JobStatusLoading   = "loading"
	JobStatusInTransit = "in_transit"
	JobStatusUnloading = "unloading"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

// Priority levels.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Customer fields.
const (
	CustomerTypePrivate  = "private"
	CustomerTypeBusiness = "business"

	CustomerStatusActive      = "active"
	CustomerStatusInactive    = "inactive"
	CustomerStatusBlacklisted = "blacklisted"
)

// Staff roles and statuses.
const (
	RoleAdmin           = "admin"
	RoleManager         = "manager"
	RoleMover           = "mover"
	RoleDriver          = "driver"
	RoleCustomerService = "customer_service"

	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
	StaffStatusOnLeave  = "on_leave"
)

// Issue fields.
const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"

	IssueTypeBug               = "bug"
	IssueTypeFeatureRequest    = "feature_request"
	IssueTypeCustomerComplaint = "customer_complaint"
	IssueTypeSystemIssue       = "system_issue"
	IssueTypeOther             = "other"
)

// Activity types.
const (
	ActivityCall    = "call"
	ActivityEmail   = "email"
	ActivityMeeting = "meeting"
	ActivityNote    = "note"
	ActivityTask    = "task"
)

// Notification types.
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
	NotificationSuccess = "success"
)

// Document categories.
const (
	CategoryContract  = "contract"
	CategoryInvoice   = "invoice"
	CategoryQuote     = "quote"
	CategoryPhoto     = "photo"
	CategoryInsurance = "insurance"
	CategoryOther     = "other"
)

// NewID mints a client-side entity ID. IDs stay opaque strings on the wire;
// server-created records keep whatever ID the backend assigned.
func NewID() string {
	return uuid.NewString()
}

// NewBookingNumber mints a booking number for jobs created client-side.
func NewBookingNumber() string {
	return "NF-" + ulid.Make().String()
}
