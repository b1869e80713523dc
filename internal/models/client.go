package models

import (
	"strings"
	"time"
)

// DefaultClientStatus is assigned when a client is created without a status.
const DefaultClientStatus = "New"

// Client is a contact record kept by the agency's workers.
type Client struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Phone         string    `json:"phone,omitempty" gorm:"type:varchar(50)" validate:"max=50"`
	Email         string    `json:"email,omitempty" gorm:"type:varchar(255)" validate:"max=255"`
	WorkerComment string    `json:"workerComment,omitempty" gorm:"type:text"`
	Status        string    `json:"status" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	CreatedAt     time.Time `json:"createdAt" gorm:"<-:create;not null;index"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplyCreateDefaults stamps server-side creation values.
func (c *Client) ApplyCreateDefaults(now time.Time) {
	c.Name = strings.TrimSpace(c.Name)
	c.Status = strings.TrimSpace(c.Status)
	// "Новий" is the label the web client used for the same default.
	if c.Status == "" || c.Status == "Новий" {
		c.Status = DefaultClientStatus
	}
	c.CreatedAt = now
	c.UpdatedAt = now
}

func (c *Client) Validate() error {
	return ValidateStruct(c)
}

// ClientInput is the typed payload for creating a client.
type ClientInput struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	WorkerComment string `json:"workerComment"`
	Status        string `json:"status"`
}

func (in ClientInput) ToClient() *Client {
	return &Client{
		Name:          in.Name,
		Phone:         in.Phone,
		Email:         in.Email,
		WorkerComment: in.WorkerComment,
		Status:        in.Status,
	}
}

// ClientPatch is a partial update. Nil fields are left untouched.
type ClientPatch struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	WorkerComment *string `json:"workerComment"`
	Status        *string `json:"status"`

	// CreatedAt is accepted so full-object payloads bind, but it is never written.
	CreatedAt *time.Time `json:"createdAt"`
}

func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.WorkerComment != nil {
		c.WorkerComment = *p.WorkerComment
	}
	if p.Status != nil && strings.TrimSpace(*p.Status) != "" {
		c.Status = strings.TrimSpace(*p.Status)
	}
}

// ClientMutableColumns are the columns an update may write.
var ClientMutableColumns = []string{
	"name", "phone", "email", "worker_comment", "status", "updated_at",
}
