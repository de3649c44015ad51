// Package tenant maps client identifiers to their data partition and scopes
// queries to it.
package tenant

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// SchemaPrefix is prepended to every resolved partition name.
const SchemaPrefix = "tenant_"

// ResolveSchemaName converts a client identifier into its partition name.
// The identifier is lower-cased and every character outside [a-z0-9] becomes
// an underscore. Empty input yields the bare prefix.
func ResolveSchemaName(tenantID string) string {
	lower := strings.ToLower(tenantID)

	var b strings.Builder
	b.Grow(len(SchemaPrefix) + len(lower))
	b.WriteString(SchemaPrefix)
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// Tenant identifies the client whose rows a data-access call may touch.
type Tenant struct {
	ClientID string
	Schema   string
}

// Resolve builds the Tenant for a client identifier.
func Resolve(clientID string) Tenant {
	return Tenant{ClientID: clientID, Schema: ResolveSchemaName(clientID)}
}

// IsZero reports whether no client has been resolved.
func (t Tenant) IsZero() bool {
	return t.ClientID == ""
}

func (t Tenant) String() string {
	return t.Schema
}

// Scope restricts a query to rows owned by the tenant. The column defaults to
// client_id; pass a qualified name when the query joins several tables.
func Scope(t Tenant, column ...string) func(*gorm.DB) *gorm.DB {
	col := "client_id"
	if len(column) > 0 && column[0] != "" {
		col = column[0]
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", t.ClientID)
	}
}

type contextKey struct{}

// WithContext stores the tenant in ctx.
func WithContext(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tenant stored in ctx, if any.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(Tenant)
	return t, ok && !t.IsZero()
}
