package domain

import "time"

// Address is the optional postal address of a client.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Client is a customer organisation owned by the user who created it.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   *Address
	Company   string
	Industry  string
	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the populated view embedded in project payloads.
func (c *Client) Ref() ClientRef {
	return ClientRef{ID: c.ID, Name: c.Name, Email: c.Email, Company: c.Company}
}

// ClientRef is the populated view of a client reference.
type ClientRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// ClientChanges holds the fields of a client update. Nil fields are left untouched.
type ClientChanges struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *Address
	Company  *string
	Industry *string
	IsActive *bool
}
