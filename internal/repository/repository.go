// Package repository holds one pgx-backed store per entity.
package repository

import "strings"

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}
