package models

import (
	"time"

	"github.com/lib/pq"
)

// Client is a subscribing company and the tenant isolation boundary. Every
// project and inventory entry belongs to exactly one client.
type Client struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"size:255;not null" validate:"required,min=1,max=255"`
	Keywords  pq.StringArray `json:"keywords" gorm:"type:text[];not null;default:'{}'" validate:"max=50,dive,min=1,max=100"`
	OwnerID   *string        `json:"ownerId,omitempty" gorm:"type:uuid;index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`

	Owner        *User              `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Projects     []Project          `json:"-" gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Repositories []ClientRepository `json:"-" gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the table name for Client
func (Client) TableName() string {
	return "clients"
}

// IsOwnedBy reports whether userID owns the client.
func (c *Client) IsOwnedBy(userID string) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}
