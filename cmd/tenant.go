// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/dispatch-console/pkg/gate"
	v0 "github.com/canonical/dispatch-console/v0"
)

var (
	createForm     v0.CreateTenantRequest
	invitationRole string
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage the tenant of the signed in user",
}

type tenantStatus struct {
	UserID      string          `json:"userId"`
	Email       string          `json:"email,omitempty"`
	ActiveID    string          `json:"activeTenantId,omitempty"`
	Tenant      *v0.Tenant      `json:"tenant,omitempty"`
	Memberships []v0.Membership `json:"memberships"`
}

var tenantStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the memberships and the active tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConsole(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		profile := c.session.Profile()

		st := tenantStatus{UserID: profile.ID, Email: profile.Email, Memberships: []v0.Membership{}}
		for _, m := range profile.Memberships() {
			st.Memberships = append(st.Memberships, v0.Membership{TenantID: m.TenantID, Status: m.Status, Role: m.Role})
		}

		if id, ok := c.session.ActiveTenantID(ctx); ok {
			st.ActiveID = id
			if st.Tenant, err = c.client.FindTenantByID(ctx, id); err != nil {
				c.logger.Warnf("failed to load tenant %s: %v", id, err)
			}
		}

		return render(c.out, st, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "user:\t%s %s\n", st.UserID, st.Email)
			if st.Tenant != nil {
				fmt.Fprintf(w, "tenant:\t%s (%s)\n", st.Tenant.Name, st.Tenant.ID)
			} else if st.ActiveID != "" {
				fmt.Fprintf(w, "tenant:\t%s\n", st.ActiveID)
			} else {
				fmt.Fprintln(w, "tenant:\tnone")
			}
			for _, m := range st.Memberships {
				fmt.Fprintf(w, "membership:\t%s\t%s\t%s\n", m.TenantID, m.Status, m.Role)
			}
		})
	},
}

var joinTenantCmd = &cobra.Command{
	Use:   "join [code]",
	Short: "Join a tenant with an invitation code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConsole(cmd)
		if err != nil {
			return err
		}

		return c.throughGate(cmd.Context(), gate.TabJoin, func(ctx context.Context, g *gate.Gate) error {
			return g.SubmitInvitation(ctx, args[0])
		})
	},
}

var createTenantCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new tenant owned by the signed in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConsole(cmd)
		if err != nil {
			return err
		}

		return c.throughGate(cmd.Context(), gate.TabCreate, func(ctx context.Context, g *gate.Gate) error {
			return g.SubmitCreate(ctx, createForm)
		})
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite [email]",
	Short: "Invite a user to the active tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConsole(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		id, err := c.tenant(ctx)
		if err != nil {
			return err
		}

		inv, err := c.client.CreateInvitation(ctx, v0.CreateInvitationRequest{TenantID: id, Email: args[0], Role: invitationRole})
		if err != nil {
			return err
		}

		return render(c.out, inv, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "code:\t%s\n", inv.Code)
			fmt.Fprintf(w, "email:\t%s\n", inv.Email)
			fmt.Fprintf(w, "expires at:\t%s\n", inv.ExpiresAt)
		})
	},
}

// throughGate opens the tenant gate on tab, runs submit and waits for the
// gate to hand over the tenant joined.
func (c *console) throughGate(ctx context.Context, tab gate.Tab, submit func(context.Context, *gate.Gate) error) error {
	joined := make(chan string, 1)

	g := gate.NewGate(
		c.session,
		c.client,
		c.cache,
		gate.Config{},
		gate.Callbacks{
			OnReload: func(id string) { joined <- id },
			OnNotify: func(err error) { c.logger.Debugf("tenant gate: %v", err) },
		},
		c.logger,
	)
	defer g.Close()

	g.Open(ctx)
	if !g.State().IsOpen() {
		id, _ := c.session.ActiveTenantID(ctx)
		fmt.Fprintf(c.out, "Already a member of tenant %s\n", id)
		return nil
	}

	if err := g.SelectTab(tab); err != nil {
		return err
	}

	if err := submit(ctx, g); err != nil {
		return err
	}

	select {
	case id := <-joined:
		fmt.Fprintf(c.out, "Joined tenant %s\n", id)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func init() {
	f := createTenantCmd.Flags()
	f.StringVar(&createForm.Name, "name", "", "company name")
	f.StringVar(&createForm.Email, "email", "", "contact email")
	f.StringVar(&createForm.Phone, "phone", "", "contact phone")
	f.StringVar(&createForm.Address, "address", "", "street address")
	f.StringVar(&createForm.TaxNumber, "tax-number", "", "tax registration number")
	f.StringVar(&createForm.BusinessTitle, "business-title", "", "legal business name")
	f.StringVar(&createForm.Timezone, "tenant-timezone", "", "IANA timezone of the tenant")

	inviteCmd.Flags().StringVar(&invitationRole, "role", "member", "owner or member")

	tenantCmd.AddCommand(tenantStatusCmd)
	tenantCmd.AddCommand(joinTenantCmd)
	tenantCmd.AddCommand(createTenantCmd)
	tenantCmd.AddCommand(inviteCmd)

	rootCmd.AddCommand(tenantCmd)
}
