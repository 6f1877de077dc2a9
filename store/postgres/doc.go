// Package postgres implements the store using pgx/v5 with raw SQL.
// Workflow definitions and credential data are stored as JSONB,
// execution runs as flat rows. Schema migrations are embedded SQL files
// applied in filename order.
package postgres
