// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canonical/dispatch-console/pkg/client"
	"github.com/canonical/dispatch-console/pkg/filters"
)

var (
	dispatchFilter filters.DispatchFilter
	vehicleFilter  filters.VehicleFilter
	invoiceFilter  filters.InvoiceFilter
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Browse incident tickets",
}

var listTicketsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the incident tickets of a client site",
	Long: `List the incident tickets of a client site.

Dates are YYYY-MM-DD and times HH:MM, read in --timezone. A date needs its
time and the other way round.`,
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

		tickets, err := c.client.ListTickets(ctx, id, dispatchFilter, c.loc)
		if err != nil {
			return err
		}

		return render(c.out, tickets, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tREPORTED AT\tSTATUS\tTITLE\tARCHIVED")
			for _, t := range tickets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", t.ID, t.ReportedAt, t.Status, t.Title, t.Archived)
			}
		})
	},
}

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Browse the vehicle fleet",
}

var listVehiclesCmd = &cobra.Command{
	Use:   "list",
	Short: "List the vehicles of the tenant",
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

		resp, err := c.client.ListVehicles(ctx, id, vehicleFilter)
		if err != nil {
			return err
		}

		return render(c.out, resp, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tPLATE\tCATEGORY\tSTATUS")
			for _, v := range resp.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Plate, v.CategoryID, v.Status)
			}
			fmt.Fprintf(w, "page %d, %d per page\n", resp.Page, resp.PerPage)
		})
	},
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Browse invoices",
}

var listInvoicesCmd = &cobra.Command{
	Use:   "list",
	Short: "List the invoices of the tenant",
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

		resp, err := c.client.ListInvoices(ctx, id, invoiceFilter)
		if err != nil {
			return err
		}

		return render(c.out, resp, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "NUMBER\tISSUED ON\tCLIENT\tSTATUS\tTOTAL")
			for _, i := range resp.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d.%02d\n", i.Number, i.IssuedOn, i.ClientID, i.Status, i.TotalCents/100, i.TotalCents%100)
			}
			fmt.Fprintf(w, "page %d, %d per page\n", resp.Page, resp.PerPage)
		})
	},
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the countries offered by the tenant forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		if output != "text" && output != "json" {
			return errFormat
		}

		countries, err := client.NewClient(apiURL, newLogger()).ListCountries(cmd.Context())
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), countries, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "CODE\tNAME")
			for _, c := range countries {
				fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
			}
		})
	},
}

func init() {
	f := listTicketsCmd.Flags()
	f.StringVar(&dispatchFilter.ClientID, "client", "", "client id")
	f.StringVar(&dispatchFilter.SiteID, "site", "", "client site id")
	f.StringVar(&dispatchFilter.Status, "status", filters.DispatchStatusAll, "todo, abierto, en_proceso or cerrado")
	f.StringVar(&dispatchFilter.FromDate, "from-date", "", "start date, YYYY-MM-DD")
	f.StringVar(&dispatchFilter.FromTime, "from-time", "", "start time, HH:MM")
	f.StringVar(&dispatchFilter.ToDate, "to-date", "", "end date, YYYY-MM-DD")
	f.StringVar(&dispatchFilter.ToTime, "to-time", "", "end time, HH:MM")
	f.BoolVar(&dispatchFilter.IncludeArchived, "archived", false, "include archived tickets")

	f = listVehiclesCmd.Flags()
	f.StringVar(&vehicleFilter.CategoryID, "category", "", "vehicle category id")
	f.StringVar(&vehicleFilter.Status, "status", "", "activo or inactivo")
	f.IntVar(&vehicleFilter.PerPage, "per-page", filters.DefaultPerPage, "10, 25 or 50")
	f.IntVar(&vehicleFilter.Page, "page", 1, "page number")

	f = listInvoicesCmd.Flags()
	f.StringVar(&invoiceFilter.ClientID, "client", "", "client id")
	f.StringVar(&invoiceFilter.Status, "status", filters.InvoiceStatusAll, "todo, pendiente, pagada, vencida or anulada")
	f.StringVar(&invoiceFilter.FromDate, "from-date", "", "first issue date, YYYY-MM-DD")
	f.StringVar(&invoiceFilter.ToDate, "to-date", "", "last issue date, YYYY-MM-DD")
	f.IntVar(&invoiceFilter.PerPage, "per-page", filters.DefaultPerPage, "10, 25 or 50")
	f.IntVar(&invoiceFilter.Page, "page", 1, "page number")

	ticketsCmd.AddCommand(listTicketsCmd)
	vehiclesCmd.AddCommand(listVehiclesCmd)
	invoicesCmd.AddCommand(listInvoicesCmd)

	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(vehiclesCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(countriesCmd)
}
