// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/dispatch-console/pkg/client"
	"github.com/canonical/dispatch-console/pkg/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached tenant of this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newFileCache()
		if err != nil {
			return err
		}

		logger := newLogger()
		s := session.NewSession(client.NewClient(apiURL, logger), cache, logger)
		if err := s.SignOut(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cache.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
