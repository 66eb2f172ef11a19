// Package migrations embeds the Postgres schema for the connection store.
package migrations

import "embed"

// FS contiene las migraciones *_up.sql, aplicadas en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
