// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL    string
	token     string
	tenantID  string
	timezone  string
	output    string
	cacheFile string
	logLevel  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dispatch-console",
	Short: "Dispatch Console",
	Long:  `Dispatch Console API server and CLI for guard dispatchers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envOr("DISPATCH_API_URL", "http://localhost:8080"), "console API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("DISPATCH_TOKEN"), "bearer token, defaults to $DISPATCH_TOKEN")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant to act on, defaults to the active tenant of the profile")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "IANA timezone of date and time filters, defaults to the local zone")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "tenant cache location, defaults to the user config dir")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level of the CLI")
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
