// ABOUTME: Typed endpoint methods for the /api/crm REST surface
// ABOUTME: One fixed JSON envelope per endpoint; mismatches return DecodeError
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/nordflytt/flyttcrm/models"
)

// Customers

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/customers", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Customers []models.Customer `json:"customers"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/customers", Key: "customers", Err: err}
	}
	if env.Customers == nil {
		return nil, &DecodeError{Path: "/api/crm/customers", Key: "customers"}
	}
	return env.Customers, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer models.Customer) (models.Customer, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/crm/customers", customer)
	if err != nil {
		return models.Customer{}, err
	}
	return decodeCustomer(data, "/api/crm/customers")
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, patch models.CustomerPatch) (models.Customer, error) {
	path := "/api/crm/customers/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodPut, path, patch)
	if err != nil {
		return models.Customer{}, err
	}
	return decodeCustomer(data, path)
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/customers/"+url.PathEscape(id), nil)
	return err
}

func decodeCustomer(data []byte, path string) (models.Customer, error) {
	var env struct {
		Customer *models.Customer `json:"customer"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Customer{}, &DecodeError{Path: path, Key: "customer", Err: err}
	}
	if env.Customer == nil {
		return models.Customer{}, &DecodeError{Path: path, Key: "customer"}
	}
	return *env.Customer, nil
}

// Leads

func (c *Client) ListLeads(ctx context.Context) ([]models.Lead, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/leads", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Leads []models.Lead `json:"leads"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/leads", Key: "leads", Err: err}
	}
	if env.Leads == nil {
		return nil, &DecodeError{Path: "/api/crm/leads", Key: "leads"}
	}
	return env.Leads, nil
}

func (c *Client) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/crm/leads", lead)
	if err != nil {
		return models.Lead{}, err
	}
	return decodeLead(data, "/api/crm/leads")
}

func (c *Client) UpdateLead(ctx context.Context, id string, patch models.LeadPatch) (models.Lead, error) {
	path := "/api/crm/leads/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodPut, path, patch)
	if err != nil {
		return models.Lead{}, err
	}
	return decodeLead(data, path)
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/leads/"+url.PathEscape(id), nil)
	return err
}

func decodeLead(data []byte, path string) (models.Lead, error) {
	var env struct {
		Lead *models.Lead `json:"lead"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Lead{}, &DecodeError{Path: path, Key: "lead", Err: err}
	}
	if env.Lead == nil {
		return models.Lead{}, &DecodeError{Path: path, Key: "lead"}
	}
	return *env.Lead, nil
}

// Jobs. The list endpoint is the booking feed; mutations go through
// /api/crm/jobs.

func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/bookings", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Bookings []models.Job `json:"bookings"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/bookings", Key: "bookings", Err: err}
	}
	if env.Bookings == nil {
		return nil, &DecodeError{Path: "/api/crm/bookings", Key: "bookings"}
	}
	return env.Bookings, nil
}

func (c *Client) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/crm/jobs", job)
	if err != nil {
		return models.Job{}, err
	}
	return decodeJob(data, "/api/crm/jobs")
}

func (c *Client) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	path := "/api/crm/jobs/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodPut, path, patch)
	if err != nil {
		return models.Job{}, err
	}
	return decodeJob(data, path)
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/jobs/"+url.PathEscape(id), nil)
	return err
}

func decodeJob(data []byte, path string) (models.Job, error) {
	var env struct {
		Job *models.Job `json:"job"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Job{}, &DecodeError{Path: path, Key: "job", Err: err}
	}
	if env.Job == nil {
		return models.Job{}, &DecodeError{Path: path, Key: "job"}
	}
	return *env.Job, nil
}

// Staff

func (c *Client) ListStaff(ctx context.Context) ([]models.Staff, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/staff", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Staff []models.Staff `json:"staff"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/staff", Key: "staff", Err: err}
	}
	if env.Staff == nil {
		return nil, &DecodeError{Path: "/api/crm/staff", Key: "staff"}
	}
	return env.Staff, nil
}

func (c *Client) CreateStaff(ctx context.Context, member models.Staff) (models.Staff, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/crm/staff", member)
	if err != nil {
		return models.Staff{}, err
	}
	return decodeStaff(data, "/api/crm/staff")
}

func (c *Client) UpdateStaff(ctx context.Context, id string, patch models.StaffPatch) (models.Staff, error) {
	path := "/api/crm/staff/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodPut, path, patch)
	if err != nil {
		return models.Staff{}, err
	}
	return decodeStaff(data, path)
}

func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/staff/"+url.PathEscape(id), nil)
	return err
}

func decodeStaff(data []byte, path string) (models.Staff, error) {
	var env struct {
		Staff *models.Staff `json:"staff"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Staff{}, &DecodeError{Path: path, Key: "staff", Err: err}
	}
	if env.Staff == nil {
		return models.Staff{}, &DecodeError{Path: path, Key: "staff"}
	}
	return *env.Staff, nil
}

// Documents and folders

func (c *Client) ListDocuments(ctx context.Context, folderID string) ([]models.Document, error) {
	path := "/api/crm/documents"
	if folderID != "" {
		path += "?folderId=" + url.QueryEscape(folderID)
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Documents []models.Document `json:"documents"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/documents", Key: "documents", Err: err}
	}
	if env.Documents == nil {
		return nil, &DecodeError{Path: "/api/crm/documents", Key: "documents"}
	}
	return env.Documents, nil
}

func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/documents/folders", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Folders []models.Folder `json:"folders"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Path: "/api/crm/documents/folders", Key: "folders", Err: err}
	}
	if env.Folders == nil {
		return nil, &DecodeError{Path: "/api/crm/documents/folders", Key: "folders"}
	}
	return env.Folders, nil
}

func (c *Client) CreateFolder(ctx context.Context, folder models.Folder) (models.Folder, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/crm/documents/folders", folder)
	if err != nil {
		return models.Folder{}, err
	}
	var env struct {
		Folder *models.Folder `json:"folder"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Folder{}, &DecodeError{Path: "/api/crm/documents/folders", Key: "folder", Err: err}
	}
	if env.Folder == nil {
		return models.Folder{}, &DecodeError{Path: "/api/crm/documents/folders", Key: "folder"}
	}
	return *env.Folder, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error) {
	path := "/api/crm/documents/" + url.PathEscape(id)
	data, err := c.do(ctx, http.MethodPut, path, patch)
	if err != nil {
		return models.Document{}, err
	}
	return decodeDocument(data, path)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/documents/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/crm/documents/folders/"+url.PathEscape(id), nil)
	return err
}

// MoveDocument reassigns a document's folder on the backend. An empty
// folderID moves it to the root.
func (c *Client) MoveDocument(ctx context.Context, id, folderID string) error {
	body := struct {
		FolderID string `json:"folder_id"`
	}{FolderID: folderID}
	_, err := c.do(ctx, http.MethodPost, "/api/crm/documents/"+url.PathEscape(id)+"/move", body)
	return err
}

// UploadDocument streams file content as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader, folderID string) (models.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return models.Document{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return models.Document{}, fmt.Errorf("buffering upload: %w", err)
	}
	if folderID != "" {
		if err := w.WriteField("folderId", folderID); err != nil {
			return models.Document{}, fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return models.Document{}, fmt.Errorf("building upload form: %w", err)
	}

	data, err := c.doMultipart(ctx, "/api/crm/documents/upload", w.FormDataContentType(), &buf)
	if err != nil {
		return models.Document{}, err
	}
	return decodeDocument(data, "/api/crm/documents/upload")
}

func decodeDocument(data []byte, path string) (models.Document, error) {
	var env struct {
		Document *models.Document `json:"document"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.Document{}, &DecodeError{Path: path, Key: "document", Err: err}
	}
	if env.Document == nil {
		return models.Document{}, &DecodeError{Path: path, Key: "document"}
	}
	return *env.Document, nil
}

// Dashboard. The stats endpoint returns the stats object directly, not
// wrapped in an envelope.

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/crm/dashboard", nil)
	if err != nil {
		return models.DashboardStats{}, err
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return models.DashboardStats{}, &DecodeError{Path: "/api/crm/dashboard", Err: err}
	}
	return stats, nil
}

// Auth

// Login exchanges credentials for the session user and token.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	data, err := c.do(ctx, http.MethodPost, "/api/crm/auth/login", body)
	if err != nil {
		return models.User{}, "", err
	}
	var env struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return models.User{}, "", &DecodeError{Path: "/api/crm/auth/login", Key: "user", Err: err}
	}
	if env.User == nil {
		return models.User{}, "", &DecodeError{Path: "/api/crm/auth/login", Key: "user"}
	}
	return *env.User, env.Token, nil
}
