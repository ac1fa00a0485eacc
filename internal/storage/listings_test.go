// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canonical/dispatch-console/internal/types"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func TestTicketsQuery(t *testing.T) {
	from := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		query        types.TicketQuery
		contains     []string
		notContains  []string
		expectedArgs int
	}{
		{
			name:         "status todo lists every status and hides archived",
			query:        types.TicketQuery{TenantID: "t1", ClientID: "c1", SiteID: "s1", Status: "todo"},
			contains:     []string{"archived = $"},
			notContains:  []string{"status = $", "reported_at >=", "reported_at <="},
			expectedArgs: 4,
		},
		{
			name: "status and full range",
			query: types.TicketQuery{
				TenantID: "t1", ClientID: "c1", SiteID: "s1", Status: "abierto",
				From: &from, To: &to, IncludeArchived: true,
			},
			contains:     []string{"status = $", "reported_at >= $", "reported_at <= $"},
			notContains:  []string{"archived = $"},
			expectedArgs: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := ticketsQuery(builder, tt.query).ToSql()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, c := range tt.contains {
				if !strings.Contains(sql, c) {
					t.Errorf("expected %q in %s", c, sql)
				}
			}
			for _, c := range tt.notContains {
				if strings.Contains(sql, c) {
					t.Errorf("did not expect %q in %s", c, sql)
				}
			}
			if len(args) != tt.expectedArgs {
				t.Errorf("expected %d args, got %d: %v", tt.expectedArgs, len(args), args)
			}
		})
	}
}

func TestVehiclesQueryPagination(t *testing.T) {
	sql, _, err := vehiclesQuery(builder, types.VehicleQuery{TenantID: "t1", Status: "activo", Page: 3, PerPage: 25}).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, "LIMIT 25 OFFSET 50") {
		t.Errorf("unexpected pagination in %s", sql)
	}
	if strings.Contains(sql, "category_id = $") {
		t.Errorf("category filter should be omitted: %s", sql)
	}
}

func TestInvoicesQueryUsesExclusiveUpperBound(t *testing.T) {
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	sql, _, err := invoicesQuery(builder, types.InvoiceQuery{TenantID: "t1", Status: "todo", To: &to}).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, "issued_on < $") {
		t.Errorf("expected exclusive upper bound in %s", sql)
	}
	if strings.Contains(sql, "status = $") {
		t.Errorf("status todo should not filter: %s", sql)
	}
}

func TestWrap(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgErrCodeUniqueViolation})
	fk := &pgconn.PgError{Code: pgErrCodeForeignKeyViolation}

	if !errors.Is(wrap(dup, "op"), ErrDuplicateKey) {
		t.Error("expected duplicate key sentinel")
	}
	if !errors.Is(wrap(fk, "op"), ErrForeignKeyViolation) {
		t.Error("expected foreign key sentinel")
	}
	if wrap(nil, "op") != nil {
		t.Error("expected nil for nil error")
	}
}
