// Package migrations embeds the audit store schema into the binaries.
//
// Importing it for side effects registers the files with the database
// package, so parkingcore and parkinglog migrate without SQL on disk.
package migrations

import (
	"embed"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
