// AngelaMos | 2026
// schema.go

package schema

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/ummah-social/internal/core"
)

//go:embed schema.sql
var SQL string

var tablePattern = regexp.MustCompile(`(?m)^CREATE TABLE IF NOT EXISTS (\w+)`)

// Tables lists the tables the schema creates, in creation order.
func Tables() []string {
	matches := tablePattern.FindAllStringSubmatch(SQL, -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables
}

// Apply creates or refreshes the schema in a single transaction. Every
// statement is idempotent so it can run against an existing database.
func Apply(ctx context.Context, db *sqlx.DB) error {
	return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, SQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}
