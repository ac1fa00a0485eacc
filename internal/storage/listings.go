// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/dispatch-console/internal/db"
	"github.com/canonical/dispatch-console/internal/types"
)

// StatusAll disables status filtering on listings.
const StatusAll = "todo"

func ticketsQuery(b sq.StatementBuilderType, q types.TicketQuery) sq.SelectBuilder {
	query := b.
		Select("id", "tenant_id", "client_id", "site_id", "title", "status", "reported_at", "archived").
		From("incident_tickets").
		Where(sq.Eq{"tenant_id": q.TenantID, "client_id": q.ClientID, "site_id": q.SiteID}).
		OrderBy("reported_at DESC")

	if q.Status != "" && q.Status != StatusAll {
		query = query.Where(sq.Eq{"status": q.Status})
	}
	if q.From != nil {
		query = query.Where(sq.GtOrEq{"reported_at": *q.From})
	}
	if q.To != nil {
		query = query.Where(sq.LtOrEq{"reported_at": *q.To})
	}
	if !q.IncludeArchived {
		query = query.Where(sq.Eq{"archived": false})
	}

	return query
}

func (s *Storage) ListTickets(ctx context.Context, q types.TicketQuery) ([]*types.IncidentTicket, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTickets")
	defer span.End()

	rows, err := ticketsQuery(s.db.Statement(ctx), q).QueryContext(ctx)
	if err != nil {
		return nil, wrap(err, "failed to list tickets")
	}
	defer rows.Close()

	tickets := make([]*types.IncidentTicket, 0)
	for rows.Next() {
		var t types.IncidentTicket
		if err := rows.Scan(&t.ID, &t.TenantID, &t.ClientID, &t.SiteID, &t.Title, &t.Status, &t.ReportedAt, &t.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tickets, nil
}

func vehiclesQuery(b sq.StatementBuilderType, q types.VehicleQuery) sq.SelectBuilder {
	perPage := db.PerPage(q.PerPage)

	query := b.
		Select("id", "tenant_id", "category_id", "plate", "status").
		From("vehicles").
		Where(sq.Eq{"tenant_id": q.TenantID}).
		OrderBy("plate").
		Limit(perPage).
		Offset(db.Offset(q.Page, perPage))

	if q.CategoryID != "" {
		query = query.Where(sq.Eq{"category_id": q.CategoryID})
	}
	if q.Status != "" {
		query = query.Where(sq.Eq{"status": q.Status})
	}

	return query
}

func (s *Storage) ListVehicles(ctx context.Context, q types.VehicleQuery) ([]*types.Vehicle, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListVehicles")
	defer span.End()

	rows, err := vehiclesQuery(s.db.Statement(ctx), q).QueryContext(ctx)
	if err != nil {
		return nil, wrap(err, "failed to list vehicles")
	}
	defer rows.Close()

	vehicles := make([]*types.Vehicle, 0)
	for rows.Next() {
		var v types.Vehicle
		if err := rows.Scan(&v.ID, &v.TenantID, &v.CategoryID, &v.Plate, &v.Status); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return vehicles, nil
}

func invoicesQuery(b sq.StatementBuilderType, q types.InvoiceQuery) sq.SelectBuilder {
	perPage := db.PerPage(q.PerPage)

	query := b.
		Select("id", "tenant_id", "client_id", "number", "status", "issued_on", "total_cents").
		From("invoices").
		Where(sq.Eq{"tenant_id": q.TenantID}).
		OrderBy("issued_on DESC", "number DESC").
		Limit(perPage).
		Offset(db.Offset(q.Page, perPage))

	if q.ClientID != "" {
		query = query.Where(sq.Eq{"client_id": q.ClientID})
	}
	if q.Status != "" && q.Status != StatusAll {
		query = query.Where(sq.Eq{"status": q.Status})
	}
	if q.From != nil {
		query = query.Where(sq.GtOrEq{"issued_on": *q.From})
	}
	if q.To != nil {
		query = query.Where(sq.Lt{"issued_on": *q.To})
	}

	return query
}

func (s *Storage) ListInvoices(ctx context.Context, q types.InvoiceQuery) ([]*types.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListInvoices")
	defer span.End()

	rows, err := invoicesQuery(s.db.Statement(ctx), q).QueryContext(ctx)
	if err != nil {
		return nil, wrap(err, "failed to list invoices")
	}
	defer rows.Close()

	invoices := make([]*types.Invoice, 0)
	for rows.Next() {
		var i types.Invoice
		if err := rows.Scan(&i.ID, &i.TenantID, &i.ClientID, &i.Number, &i.Status, &i.IssuedOn, &i.Total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, &i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invoices, nil
}
