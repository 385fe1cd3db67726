// Package migrations embeds the SQL schema migrations for the catalog
// database. Files are applied in filename order by database.RunMigrations.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
