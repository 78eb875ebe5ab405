// Package model provides the record types shared by every analytics stage.
//
// This package contains type definitions and small value helpers only. All
// other internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Monetary amounts and quantities are decimal.Decimal, never float64
//   - Raw records carry strings exactly as exported; coercion happens in enrich
//   - Optional text fields use the empty string for "absent"
//   - All JSON tags use snake_case
package model
