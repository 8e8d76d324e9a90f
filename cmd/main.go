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
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack"
	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/database"
	"github.com/fintrack/fintrack/internal/notification"
)

// Fintrack is the CLI application, wrapping the root cobra command.
type Fintrack struct {
	cmd *cobra.Command
}

// fintrackInstance holds what every subcommand needs once the configuration is loaded.
type fintrackInstance struct {
	fintrack   *fintrack.Fintrack
	cnf        *config.Configuration
	configFile string
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the service before any subcommand runs.
func preRun(app *fintrackInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(app.configFile); err != nil {
			return errors.Wrap(err, "error loading config")
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newFintrack, err := setupFintrack(cnf)
		if err != nil {
			notification.NotifyError(err)
			return err
		}

		app.fintrack = newFintrack
		app.cnf = cnf
		return nil
	}
}

func setupFintrack(cfg *config.Configuration) (*fintrack.Fintrack, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error getting datasource")
	}

	newFintrack, err := fintrack.NewFintrack(db)
	if err != nil {
		return nil, errors.Wrap(err, "error creating fintrack")
	}
	return newFintrack, nil
}

// NewCLI builds the root command and its subcommands.
func NewCLI() *Fintrack {
	f := &fintrackInstance{}

	var rootCmd = &cobra.Command{
		Use:          "fintrack",
		Short:        "Reconciliation and cash-flow projection for small business finances",
		SilenceUsage: true,
		Run:          func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&f.configFile, "config", "./fintrack.json", "Configuration file for fintrack")
	rootCmd.PersistentPreRunE = preRun(f)

	rootCmd.AddCommand(serverCommands(f))
	rootCmd.AddCommand(migrateCommands(f))
	rootCmd.AddCommand(reconcileCommands(f))
	rootCmd.AddCommand(projectCommands(f))
	rootCmd.AddCommand(configCommands(f))

	return &Fintrack{cmd: rootCmd}
}

func (w Fintrack) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
