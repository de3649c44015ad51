package models

import (
	"time"

	"gorm.io/datatypes"
)

// RegisterRequest creates a client account together with its company.
type RegisterRequest struct {
	Email       string   `json:"email" validate:"required,email,max=320"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	FullName    string   `json:"fullName" validate:"required,min=1,max=255"`
	CompanyName string   `json:"companyName" validate:"required,min=1,max=255"`
	Keywords    []string `json:"keywords" validate:"max=50,dive,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	Clients   []*Client `json:"clients"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ProjectInput carries the writable project fields for create and update.
type ProjectInput struct {
	ReferenceNumber   string         `json:"referenceNumber" validate:"max=100"`
	Title             string         `json:"title" validate:"required,min=1"`
	ProcuringEntity   string         `json:"procuringEntity" validate:"max=500"`
	ABC               float64        `json:"abc" validate:"gte=0"`
	Category          *string        `json:"category" validate:"omitempty,max=255"`
	ProcurementMode   *string        `json:"procurementMode" validate:"omitempty,max=255"`
	AreaOfDelivery    *string        `json:"areaOfDelivery" validate:"omitempty,max=500"`
	BidSupplements    datatypes.JSON `json:"bidSupplements" validate:"json_array"`
	DocumentRequests  datatypes.JSON `json:"documentRequests" validate:"json_array"`
	PreBidConferences datatypes.JSON `json:"preBidConferences" validate:"json_array"`
	PublishedAt       *time.Time     `json:"publishedAt"`
	ClosingAt         *string        `json:"closingAt" validate:"omitempty,max=100"`
	ParsedClosingAt   *time.Time     `json:"parsedClosingAt"`
}

// Apply copies the input onto p.
func (in *ProjectInput) Apply(p *Project) {
	p.ReferenceNumber = in.ReferenceNumber
	p.Title = in.Title
	p.ProcuringEntity = in.ProcuringEntity
	p.ABC = in.ABC
	p.Category = in.Category
	p.ProcurementMode = in.ProcurementMode
	p.AreaOfDelivery = in.AreaOfDelivery
	p.BidSupplements = in.BidSupplements
	p.DocumentRequests = in.DocumentRequests
	p.PreBidConferences = in.PreBidConferences
	p.PublishedAt = in.PublishedAt
	p.ClosingAt = in.ClosingAt
	p.ParsedClosingAt = in.ParsedClosingAt
	p.Normalize()
}

// ClientUpdate carries the writable client fields. A nil OwnerID leaves the
// owner unchanged; an empty string detaches it.
type ClientUpdate struct {
	Name     string   `json:"name" validate:"required,min=1,max=255"`
	Keywords []string `json:"keywords" validate:"max=50,dive,min=1,max=100"`
	OwnerID  *string  `json:"ownerId"`
}
