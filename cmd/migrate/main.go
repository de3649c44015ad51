package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
)

func main() {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the dashboard database schema",
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create or update tables and constraints",
			RunE: withMigrator(func(m *database.Migrator) error {
				fmt.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				fmt.Println("Migrations completed successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop every table owned by the dashboard",
			RunE: withMigrator(func(m *database.Migrator) error {
				fmt.Println("Rolling back migrations...")
				if err := m.Down(); err != nil {
					return fmt.Errorf("failed to roll back migrations: %w", err)
				}
				fmt.Println("Migrations rolled back successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report missing tables and constraints",
			RunE: withMigrator(func(m *database.Migrator) error {
				status, err := m.Status()
				if err != nil {
					return fmt.Errorf("failed to read migration status: %w", err)
				}
				printSection("Tables", status.Tables)
				printSection("Constraints", status.Constraints)
				if !status.Complete() {
					return fmt.Errorf("schema is incomplete, run 'migrate up'")
				}
				fmt.Println("Database is fully migrated")
				return nil
			}),
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func withMigrator(run func(*database.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		conn, err := database.NewConnection(cfg, logger.NewLogger(cfg))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		return run(database.NewMigrator(conn))
	}
}

func printSection(title string, present map[string]bool) {
	names := make([]string, 0, len(present))
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%s:\n", title)
	for _, name := range names {
		mark := "missing"
		if present[name] {
			mark = "ok"
		}
		fmt.Printf("  %-40s %s\n", name, mark)
	}
}
