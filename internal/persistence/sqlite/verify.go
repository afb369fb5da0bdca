// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CorruptError lists what SQLite's integrity pragma reported.
type CorruptError struct {
	Findings []string
}

func (e *CorruptError) Error() string {
	return "sqlite integrity check failed: " + strings.Join(e.Findings, "; ")
}

// Check verifies the database file. The default quick_check skips index
// content; full runs integrity_check. Anything other than a single "ok"
// row is a *CorruptError.
func Check(ctx context.Context, db *sql.DB, full bool) error {
	pragma := map[bool]string{false: "quick_check", true: "integrity_check"}[full]
	rows, err := db.QueryContext(ctx, "PRAGMA "+pragma)
	if err != nil {
		return fmt.Errorf("%s: %w", pragma, err)
	}
	defer func() { _ = rows.Close() }()

	var findings []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
		findings = append(findings, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", pragma, err)
	}

	switch {
	case len(findings) == 1 && strings.EqualFold(findings[0], "ok"):
		return nil
	case len(findings) == 0:
		findings = []string{pragma + " returned no rows"}
	}
	return &CorruptError{Findings: findings}
}
