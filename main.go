package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/okunevich/biblio/internal/config"
	"github.com/okunevich/biblio/internal/entrypoint"
	"github.com/okunevich/biblio/internal/seed"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	switch os.Args[1] {
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		dbPath := fs.String("db", config.DefaultDatabasePath, "path to the database file")
		if err := fs.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}
		if err := seed.Run(*dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("biblio %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Biblio - library catalog with reviews and annotations")
	fmt.Println("\nUsage:")
	fmt.Println("  biblio [serve]           Start the HTTP server (default)")
	fmt.Println("  biblio seed [-db path]   Populate the database with a demo catalog")
	fmt.Println("  biblio version           Print version information")
	fmt.Println("  biblio help              Show this help message")
}
