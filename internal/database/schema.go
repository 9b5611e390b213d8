package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// requiredTables is the static schema contract. The legacy platform probed
// table existence on every request because installations drifted; here the
// check happens once at startup and a missing table kills the process.
var requiredTables = []string{
	"users",
	"sessions",
	"follows",
	"blocks",
	"posts",
	"comments",
	"reactions",
	"group_members",
	"custom_list_members",
	"notifications",
}

func CheckSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`
	rows, err := pool.Query(ctx, query, requiredTables)
	if err != nil {
		return fmt.Errorf("schema probe: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(requiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		found[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range requiredTables {
		if _, ok := found[table]; !ok {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required tables: %s", strings.Join(missing, ", "))
	}
	return nil
}
