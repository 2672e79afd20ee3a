// Command migrate applies or rolls back the users schema.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	intconfig "usersadmin/internal/config"
	"usersadmin/internal/migrations"
	"usersadmin/internal/utils"
)

var (
	driver string
	dsn    string
)

var rootCmd = &cobra.Command{
	Use:          "migrate <command>",
	Short:        "Manage the users schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Up())
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [n]",
	Short: "Roll back n migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			n = v
		}
		return withMigrate(func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Steps(-n))
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty: %v)\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Mark a version as applied without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrate(func(m *migrate.Migrate) error { return m.Force(v) })
	},
}

func withMigrate(fn func(*migrate.Migrate) error) error {
	m, err := migrations.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := fn(m); err != nil {
		return err
	}
	utils.LogEvent("", "migrate", "done", "driver="+driver)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	return err
}

func main() {
	utils.InitLogger(os.Getenv("APP_LOG_LEVEL"), "console")

	env, err := intconfig.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVar(&driver, "driver", env.DBDriver, "mysql or sqlite3")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", env.DBDSN, "data source name")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
