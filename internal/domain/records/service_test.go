package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/domain/records"
)

func TestAppend_Validation(t *testing.T) {
	svc := records.NewService(memory.NewRecordRepo())
	ctx := context.Background()

	neg := -1
	cases := []struct {
		name string
		in   records.AppendInput
	}{
		{"missing farm", records.AppendInput{Kind: records.KindExpense}},
		{"general is not loggable", records.AppendInput{FarmID: "f1", Kind: records.KindGeneral}},
		{"register farm is not loggable", records.AppendInput{FarmID: "f1", Kind: records.KindRegisterFarm}},
		{"negative labor days", records.AppendInput{FarmID: "f1", Kind: records.KindLabor, LaborDays: &neg}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Append(ctx, tc.in); !errors.Is(err, records.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAppend_DefaultsAndTrim(t *testing.T) {
	svc := records.NewService(memory.NewRecordRepo())
	ctx := context.Background()

	rec, err := svc.Append(ctx, records.AppendInput{
		FarmID: "f1",
		Kind:   records.KindExpense,
		Detail: "  concentrado ",
		Place:  " bodega",
		Value:  120000,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("expected generated id")
	}
	if rec.Action != string(records.KindExpense) {
		t.Fatalf("action = %q, want kind as default", rec.Action)
	}
	if rec.Detail != "concentrado" || rec.Place != "bodega" {
		t.Fatalf("fields not trimmed: %+v", rec)
	}
	if !rec.Date.Equal(records.DateOf(rec.CreatedAt)) {
		t.Fatalf("date %v must be the calendar day of %v", rec.Date, rec.CreatedAt)
	}
}

func TestList_SwapsReversedRange(t *testing.T) {
	svc := records.NewService(memory.NewRecordRepo())
	ctx := context.Background()

	if _, err := svc.Append(ctx, records.AppendInput{FarmID: "f1", Kind: records.KindPlanting, Detail: "maíz"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.Append(ctx, records.AppendInput{FarmID: "f2", Kind: records.KindPlanting, Detail: "yuca"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	today := time.Now()
	rows, err := svc.List(ctx, "f1", today, today.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Detail != "maíz" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if _, err := svc.List(ctx, " ", today, today); !errors.Is(err, records.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
