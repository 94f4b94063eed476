// ABOUTME: Customer MCP tool handlers
// ABOUTME: Implements add_customer, find_customers, and update_customer tools
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
)

type CustomerHandlers struct {
	stores *store.Registry
}

func NewCustomerHandlers(stores *store.Registry) *CustomerHandlers {
	return &CustomerHandlers{stores: stores}
}

type AddCustomerInput struct {
	Name         string `json:"name" jsonschema:"Customer name (required)"`
	Email        string `json:"email,omitempty" jsonschema:"Customer email address"`
	Phone        string `json:"phone,omitempty" jsonschema:"Customer phone number"`
	Address      string `json:"address,omitempty" jsonschema:"Customer address"`
	CustomerType string `json:"customer_type,omitempty" jsonschema:"Customer type: private or business (default private)"`
	Notes        string `json:"notes,omitempty" jsonschema:"Additional notes about the customer"`
}

type CustomerOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	CustomerType string `json:"customer_type"`
	Status       string `json:"status"`
	BookingCount int    `json:"booking_count"`
	TotalValue   int64  `json:"total_value"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func (h *CustomerHandlers) AddCustomer(ctx context.Context, request *mcp.CallToolRequest, input AddCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if input.Name == "" {
		return nil, CustomerOutput{}, fmt.Errorf("name is required")
	}
	if input.CustomerType != "" &&
		input.CustomerType != models.CustomerTypePrivate &&
		input.CustomerType != models.CustomerTypeBusiness {
		return nil, CustomerOutput{}, fmt.Errorf("customer_type must be private or business")
	}

	customer, err := h.stores.Customers.Create(ctx, models.Customer{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		CustomerType: input.CustomerType,
		Notes:        input.Notes,
	})
	if err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return nil, customerToOutput(customer), nil
}

type FindCustomersInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, email, and phone)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindCustomersOutput struct {
	Customers []CustomerOutput `json:"customers"`
}

func (h *CustomerHandlers) FindCustomers(ctx context.Context, request *mcp.CallToolRequest, input FindCustomersInput) (*mcp.CallToolResult, FindCustomersOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	if err := h.stores.Customers.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached customers: %v", err)
	}

	customers := h.stores.Customers.Search(input.Query)
	result := make([]CustomerOutput, 0, limit)
	for _, c := range customers {
		result = append(result, customerToOutput(c))
		if len(result) == limit {
			break
		}
	}

	return nil, FindCustomersOutput{Customers: result}, nil
}

type UpdateCustomerInput struct {
	ID      string `json:"id" jsonschema:"Customer ID (required)"`
	Name    string `json:"name,omitempty" jsonschema:"Updated customer name"`
	Email   string `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Address string `json:"address,omitempty" jsonschema:"Updated address"`
	Notes   string `json:"notes,omitempty" jsonschema:"Updated notes"`
	Status  string `json:"status,omitempty" jsonschema:"Updated status: active, inactive, or blacklisted"`
}

func (h *CustomerHandlers) UpdateCustomer(ctx context.Context, request *mcp.CallToolRequest, input UpdateCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if input.ID == "" {
		return nil, CustomerOutput{}, fmt.Errorf("id is required")
	}

	var patch models.CustomerPatch
	if input.Name != "" {
		patch.Name = &input.Name
	}
	if input.Email != "" {
		patch.Email = &input.Email
	}
	if input.Phone != "" {
		patch.Phone = &input.Phone
	}
	if input.Address != "" {
		patch.Address = &input.Address
	}
	if input.Notes != "" {
		patch.Notes = &input.Notes
	}
	if input.Status != "" {
		patch.Status = &input.Status
	}

	if err := h.stores.Customers.Update(ctx, input.ID, patch); err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to update customer: %w", err)
	}

	customer, ok := h.stores.Customers.Get(input.ID)
	if !ok {
		return nil, CustomerOutput{}, fmt.Errorf("customer not found")
	}
	return nil, customerToOutput(customer), nil
}

func customerToOutput(c models.Customer) CustomerOutput {
	return CustomerOutput{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		CustomerType: c.CustomerType,
		Status:       c.Status,
		BookingCount: c.BookingCount,
		TotalValue:   c.TotalValue,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
