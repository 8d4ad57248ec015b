package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	_ "github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/database/migrations"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/database/seeders"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/migration"
)

// connectDB loads configuration and opens the database for the CLI
// commands that need nothing else running.
func connectDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := connectDB(); err != nil {
					return err
				}
				return migration.Up(database.DB)
			},
		},
		&cobra.Command{
			Use:   "migrate:rollback",
			Short: "Revert the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := connectDB(); err != nil {
					return err
				}
				return migration.Rollback(database.DB)
			},
		},
		&cobra.Command{
			Use:   "migrate:status",
			Short: "Show which migrations have run",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := connectDB(); err != nil {
					return err
				}
				lines, err := migration.Status(database.DB)
				if err != nil {
					return err
				}
				for _, line := range lines {
					fmt.Println(line)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load development fixtures",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := connectDB(); err != nil {
					return err
				}
				if err := migration.Up(database.DB); err != nil {
					return err
				}
				return seeders.Run(database.DB)
			},
		},
	)
}
