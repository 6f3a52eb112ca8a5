// Package main is the taskerp command line: the HTTP API server and its
// operational subcommands.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "taskerp",
	Short:        "taskerp - task management API with role-based access control",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|version|reset]",
	Short:     "Run database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: migrateCommands,
	RunE:      runMigrate,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for a password (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHashPassword,
}

var (
	migrateOnStart bool
	hashCost       int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default ./config.yaml if present)")
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
