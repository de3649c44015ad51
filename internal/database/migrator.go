package database

import (
	"fmt"

	"github.com/tonzxz12/Findr-sub000/internal/models"
)

// Migrator handles database migrations
type Migrator struct {
	db *Connection
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Connection) *Migrator {
	return &Migrator{db: db}
}

// schema lists the tables in dependency order.
func schema() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.ProjectAttachment{},
		&models.ClientRepository{},
	}
}

// constraints that must exist after Up, keyed by owning table.
var constraints = []struct {
	model interface{}
	name  string
}{
	{&models.User{}, "chk_users_role"},
	{&models.Client{}, "fk_clients_owner"},
	{&models.Client{}, "fk_clients_projects"},
	{&models.Client{}, "fk_clients_repositories"},
	{&models.Project{}, "chk_projects_abc"},
	{&models.Project{}, "chk_projects_bid_supplements"},
	{&models.Project{}, "chk_projects_document_requests"},
	{&models.Project{}, "chk_projects_pre_bid_conferences"},
	{&models.Project{}, "fk_projects_attachments"},
	{&models.ProjectAttachment{}, "chk_project_attachments_size"},
	{&models.ProjectAttachment{}, "chk_project_attachments_metadata"},
	{&models.ClientRepository{}, "chk_client_repositories_status"},
	{&models.ClientRepository{}, "chk_client_repositories_environment"},
	{&models.ClientRepository{}, "chk_client_repositories_spec"},
}

// Up creates or updates every table together with its check and foreign
// key constraints.
func (m *Migrator) Up() error {
	if err := m.db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %w", err)
	}
	if err := m.db.AutoMigrate(schema()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Down drops every table. Intended for tests and local resets.
func (m *Migrator) Down() error {
	tables := schema()
	reversed := make([]interface{}, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		reversed = append(reversed, tables[i])
	}
	return m.db.Migrator().DropTable(reversed...)
}

// MigrationStatus reports which tables and constraints are present.
type MigrationStatus struct {
	Tables      map[string]bool `json:"tables"`
	Constraints map[string]bool `json:"constraints"`
}

// Complete reports whether nothing is missing.
func (s *MigrationStatus) Complete() bool {
	for _, ok := range s.Tables {
		if !ok {
			return false
		}
	}
	for _, ok := range s.Constraints {
		if !ok {
			return false
		}
	}
	return true
}

// Status inspects the live schema.
func (m *Migrator) Status() (*MigrationStatus, error) {
	status := &MigrationStatus{
		Tables:      map[string]bool{},
		Constraints: map[string]bool{},
	}

	migrator := m.db.Migrator()
	for _, model := range schema() {
		stmt := m.db.Model(model).Statement
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		status.Tables[stmt.Schema.Table] = migrator.HasTable(model)
	}

	for _, c := range constraints {
		status.Constraints[c.name] = migrator.HasConstraint(c.model, c.name)
	}

	return status, nil
}
