package repositories

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// psql builds statements with "?" placeholders; gorm rebinds them for the
// postgres dialect when the statement runs through Raw.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// validID reports whether id can name a row. Anything else is treated as
// absent rather than handed to the store as a malformed uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
