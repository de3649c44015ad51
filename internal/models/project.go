package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project statuses derived from the parsed closing date.
const (
	ProjectStatusActive      = "active"
	ProjectStatusCompleted   = "completed"
	ProjectStatusUnscheduled = "unscheduled"
)

// Project is a procurement opportunity tracked for a client. ABC is the
// approved budget for the contract and may never be negative.
type Project struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID          string         `json:"clientId" gorm:"type:uuid;not null;index;index:idx_projects_client_created,priority:1"`
	ReferenceNumber   string         `json:"referenceNumber" gorm:"size:100;index" validate:"max=100"`
	Title             string         `json:"title" gorm:"not null" validate:"required,min=1"`
	ProcuringEntity   string         `json:"procuringEntity" validate:"max=500"`
	ABC               float64        `json:"abc" gorm:"column:abc;type:numeric(18,2);not null;default:0;check:chk_projects_abc,abc >= 0" validate:"gte=0"`
	Category          *string        `json:"category,omitempty" gorm:"size:255;index" validate:"omitempty,max=255"`
	ProcurementMode   *string        `json:"procurementMode,omitempty" gorm:"size:255" validate:"omitempty,max=255"`
	AreaOfDelivery    *string        `json:"areaOfDelivery,omitempty" validate:"omitempty,max=500"`
	BidSupplements    datatypes.JSON `json:"bidSupplements" gorm:"type:jsonb;not null;default:'[]';check:chk_projects_bid_supplements,jsonb_typeof(bid_supplements) = 'array'" validate:"json_array"`
	DocumentRequests  datatypes.JSON `json:"documentRequests" gorm:"type:jsonb;not null;default:'[]';check:chk_projects_document_requests,jsonb_typeof(document_requests) = 'array'" validate:"json_array"`
	PreBidConferences datatypes.JSON `json:"preBidConferences" gorm:"type:jsonb;not null;default:'[]';check:chk_projects_pre_bid_conferences,jsonb_typeof(pre_bid_conferences) = 'array'" validate:"json_array"`
	PublishedAt       *time.Time     `json:"publishedAt,omitempty"`
	ClosingAt         *string        `json:"closingAt,omitempty" gorm:"size:100"`
	ParsedClosingAt   *time.Time     `json:"parsedClosingAt,omitempty" gorm:"index"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"index:idx_projects_client_created,priority:2,sort:desc"`
	UpdatedAt         time.Time      `json:"updatedAt"`

	Attachments []ProjectAttachment `json:"attachments,omitempty" gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Status derives the lifecycle status of the project at now.
func (p *Project) Status(now time.Time) string {
	return ProjectStatusAt(p.ParsedClosingAt, now)
}

// ProjectStatusAt derives a status from a parsed closing date.
func ProjectStatusAt(parsedClosingAt *time.Time, now time.Time) string {
	switch {
	case parsedClosingAt == nil:
		return ProjectStatusUnscheduled
	case parsedClosingAt.After(now):
		return ProjectStatusActive
	default:
		return ProjectStatusCompleted
	}
}

// ProjectAttachment is a document linked to a project. Attachments are
// removed together with their project.
type ProjectAttachment struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID string         `json:"projectId" gorm:"type:uuid;not null;index"`
	URL       string         `json:"url" gorm:"not null" validate:"required,url"`
	Filename  string         `json:"filename" gorm:"size:255;not null" validate:"required,max=255"`
	MimeType  string         `json:"mimeType" gorm:"size:255" validate:"max=255"`
	SizeBytes int64          `json:"sizeBytes" gorm:"not null;default:0;check:chk_project_attachments_size,size_bytes >= 0" validate:"gte=0"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb;not null;default:'{}';check:chk_project_attachments_metadata,jsonb_typeof(metadata) = 'object'" validate:"json_object"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TableName returns the table name for ProjectAttachment
func (ProjectAttachment) TableName() string {
	return "project_attachments"
}
