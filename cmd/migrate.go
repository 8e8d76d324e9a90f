/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack"
	"github.com/fintrack/fintrack/database"
)

const migrationSchema = "fintrack"

func migrateCommands(f *fintrackInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back fintrack schema migrations",
	}

	cmd.AddCommand(migrateDirectionCommand(f, "up", migrate.Up, "Applied %d migrations!\n"))
	cmd.AddCommand(migrateDirectionCommand(f, "down", migrate.Down, "Rolled back %d migrations!\n"))

	return cmd
}

func migrateDirectionCommand(f *fintrackInstance, use string, direction migrate.MigrationDirection, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("migrate %s", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.ConnectDB(f.cnf.DataSource.Dns)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := runMigrations(db, direction)
			if err != nil {
				return errors.Wrapf(err, "error migrating %s", use)
			}
			fmt.Fprintf(cmd.OutOrStdout(), done, n)
			return nil
		},
	}
}

// runMigrations applies the embedded migrations, keeping the bookkeeping table inside the
// fintrack schema. The schema is created first since the bookkeeping table lives in it.
func runMigrations(db *sql.DB, direction migrate.MigrationDirection) (int, error) {
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + migrationSchema); err != nil {
		return 0, errors.Wrap(err, "creating schema")
	}

	migrations := migrate.EmbedFileSystemMigrationSource{
		FileSystem: fintrack.SQLFiles,
		Root:       "sql",
	}
	migrate.SetSchema(migrationSchema)
	return migrate.Exec(db, "postgres", migrations, direction)
}
