package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./biblio.db"

	// DefaultBcryptCost is used when no cost is configured
	DefaultBcryptCost = 12

	// DefaultPerPage is the catalog page size when the client gives none
	DefaultPerPage = 10

	// MaxPerPage caps the per_page query parameter on catalog listings
	MaxPerPage = 50
)
