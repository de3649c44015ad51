package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Inventory statuses and environments accepted by the store.
var (
	RepositoryStatuses     = []string{"active", "planned", "deprecated", "retired"}
	RepositoryEnvironments = []string{"prod", "staging", "test", "dev", "dr", "sandbox"}
)

// ClientRepository is an inventory entry (system, dataset or service) kept
// for a client. Entries are deleted together with their client.
type ClientRepository struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID     string         `json:"clientId" gorm:"type:uuid;not null;index"`
	Name         string         `json:"name" gorm:"size:255;not null" validate:"required,min=1,max=255"`
	Category     string         `json:"category" gorm:"size:255" validate:"max=255"`
	Description  string         `json:"description"`
	Tags         pq.StringArray `json:"tags" gorm:"type:text[];not null;default:'{}'" validate:"max=50,dive,min=1,max=100"`
	Status       string         `json:"status" gorm:"size:20;not null;default:active;check:chk_client_repositories_status,status IN ('active','planned','deprecated','retired')" validate:"required,oneof=active planned deprecated retired"`
	Environment  string         `json:"environment" gorm:"size:20;not null;default:prod;check:chk_client_repositories_environment,environment IN ('prod','staging','test','dev','dr','sandbox')" validate:"required,oneof=prod staging test dev dr sandbox"`
	Integrations datatypes.JSON `json:"integrations" gorm:"type:jsonb;not null;default:'[]';check:chk_client_repositories_integrations,jsonb_typeof(integrations) = 'array'" validate:"json_array"`
	Licenses     datatypes.JSON `json:"licenses" gorm:"type:jsonb;not null;default:'[]';check:chk_client_repositories_licenses,jsonb_typeof(licenses) = 'array'" validate:"json_array"`
	Contacts     datatypes.JSON `json:"contacts" gorm:"type:jsonb;not null;default:'[]';check:chk_client_repositories_contacts,jsonb_typeof(contacts) = 'array'" validate:"json_array"`
	Compliance   datatypes.JSON `json:"compliance" gorm:"type:jsonb;not null;default:'[]';check:chk_client_repositories_compliance,jsonb_typeof(compliance) = 'array'" validate:"json_array"`
	Spec         datatypes.JSON `json:"spec" gorm:"type:jsonb;not null;default:'{}';check:chk_client_repositories_spec,jsonb_typeof(spec) = 'object'" validate:"json_object"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// TableName returns the table name for ClientRepository
func (ClientRepository) TableName() string {
	return "client_repositories"
}
