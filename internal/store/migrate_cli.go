package store

import (
	"fmt"
	"log"
	"os"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	action := args[0]

	// Open without running migrations: the subcommand itself decides what
	// to apply.
	s, err := OpenWithoutMigrations(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer s.Close()

	switch action {
	case "up":
		handleMigrateUp(s)

	case "down":
		handleMigrateDown(s)

	case "status":
		handleMigrateStatus(s)

	case "version":
		if len(args) < 2 {
			log.Fatal("Usage: pupil-report migrate version <version_number>")
		}
		handleMigrateVersion(s, args[1])

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: pupil-report migrate force <version_number>")
		}
		handleMigrateForce(s, args[1])

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

// handleMigrateUp applies all pending migrations.
func handleMigrateUp(s *Store) {
	log.Printf("Running migrations...")
	if err := s.MigrateUp(); err != nil {
		log.Fatalf("Migration up failed: %v", err)
	}
	log.Println("✓ All migrations applied successfully")

	version, dirty, _ := s.MigrateVersion()
	log.Printf("Current version: %d (dirty: %v)", version, dirty)
}

// handleMigrateDown rolls back one migration.
func handleMigrateDown(s *Store) {
	log.Printf("Rolling back one migration...")
	if err := s.MigrateDown(); err != nil {
		log.Fatalf("Migration down failed: %v", err)
	}
	log.Println("✓ Migration rolled back successfully")

	version, dirty, _ := s.MigrateVersion()
	log.Printf("Current version: %d (dirty: %v)", version, dirty)
}

// handleMigrateStatus displays the current migration status.
func handleMigrateStatus(s *Store) {
	version, dirty, err := s.MigrateVersion()
	if err != nil {
		log.Fatalf("Failed to get migration status: %v", err)
	}

	fmt.Println("=== Migration Status ===")
	fmt.Printf("Current version: %d\n", version)
	fmt.Printf("Dirty: %v\n", dirty)

	if dirty {
		fmt.Println("\n⚠️  WARNING: Database is in a dirty state!")
		fmt.Println("A migration failed mid-execution. You may need to:")
		fmt.Println("  1. Inspect the database manually")
		fmt.Println("  2. Fix any issues")
		fmt.Println("  3. Run: pupil-report migrate force <version>")
	}
}

// handleMigrateVersion migrates to a specific version.
func handleMigrateVersion(s *Store, versionStr string) {
	var targetVersion uint
	if _, err := fmt.Sscanf(versionStr, "%d", &targetVersion); err != nil {
		log.Fatalf("Invalid version number: %s", versionStr)
	}

	log.Printf("Migrating to version %d...", targetVersion)
	if err := s.MigrateTo(targetVersion); err != nil {
		log.Fatalf("Migration to version %d failed: %v", targetVersion, err)
	}
	log.Printf("✓ Migrated to version %d successfully", targetVersion)
}

// handleMigrateForce forces the migration version (recovery only).
func handleMigrateForce(s *Store, versionStr string) {
	var forceVersion int
	if _, err := fmt.Sscanf(versionStr, "%d", &forceVersion); err != nil {
		log.Fatalf("Invalid version number: %s", versionStr)
	}

	fmt.Printf("⚠️  WARNING: Forcing migration version to %d\n", forceVersion)
	fmt.Println("This should only be used to recover from a dirty migration state.")
	fmt.Print("Continue? [y/N]: ")

	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		log.Println("Aborted")
		os.Exit(0)
	}

	if err := s.MigrateForce(forceVersion); err != nil {
		log.Fatalf("Force migration failed: %v", err)
	}
	log.Printf("✓ Migration version forced to %d", forceVersion)
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println("Usage: pupil-report migrate <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  up                  Apply all pending migrations")
	fmt.Println("  down                Roll back the most recent migration")
	fmt.Println("  status              Show current migration version and state")
	fmt.Println("  version <n>         Migrate up or down to version n")
	fmt.Println("  force <n>           Force version to n (dirty-state recovery)")
	fmt.Println("  help                Show this help")
	fmt.Println()
	fmt.Println("The database path is taken from the -db flag (default results.db).")
}
