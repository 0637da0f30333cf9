// Command seed fills a database with the demo catalog and accounts.
// Usage: go run cmd/seed/main.go [-db path/to/biblio.db]
package main

import (
	"flag"
	"log"

	"github.com/okunevich/biblio/internal/config"
	"github.com/okunevich/biblio/internal/seed"
)

func main() {
	dbPath := flag.String("db", config.DefaultDatabasePath, "path to the database file")
	flag.Parse()

	if err := seed.Run(*dbPath); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
