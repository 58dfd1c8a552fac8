package memory

import (
	"context"
	"testing"
	"time"

	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
)

func TestAnimalUpsert_KeepsFirstRowAndUpdatesWeight(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	w1, w2 := 100.0, 120.0
	a := animals.Animal{ID: "a1", FarmID: "f1", ExternalID: "V-M-A1", Tag: "A1", Weight: &w1, Status: animals.StatusActive}
	if err := s.Animals().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a.ID, a.Weight = "a2", &w2
	if err := s.Animals().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	list, _ := s.Animals().ListActive(ctx, "f1")
	if len(list) != 1 {
		t.Fatalf("expected 1 animal, got %d", len(list))
	}
	if list[0].ID != "a1" || *list[0].Weight != 120 {
		t.Fatalf("unexpected row: %+v", list[0])
	}
}

func TestAnimalUpsert_LatestCallWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	w := 300.0
	a := animals.Animal{ID: "a1", FarmID: "f1", ExternalID: "V-M-LG5", Tag: "LG5", Category: "novillo", Weight: &w, Status: animals.StatusActive}
	if err := s.Animals().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a.Weight, a.Category = nil, ""
	if err := s.Animals().Upsert(ctx, a); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := s.Animals().Resolve(ctx, "f1", "LG5", false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Weight != nil || got.Category != "" {
		t.Fatalf("weight/category must reflect the latest upsert, got %+v", got)
	}
}

func TestMarkDisposed_OnlyOneAnimal(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, tag := range []string{"LG1", "LG10", "LG11"} {
		_ = s.Animals().Upsert(ctx, animals.Animal{FarmID: "f1", ExternalID: "V-M-" + tag, Tag: tag, Status: animals.StatusActive})
	}

	n, err := s.Animals().MarkDisposed(ctx, "f1", "LG1", animals.StatusSold, "Vendido: novillo - ")
	if err != nil || n != 1 {
		t.Fatalf("expected 1 disposed, got %d (%v)", n, err)
	}
	list, _ := s.Animals().ListActive(ctx, "f1")
	if len(list) != 2 || list[0].Tag != "LG10" || list[1].Tag != "LG11" {
		t.Fatalf("LG10 and LG11 must stay active, got %+v", list)
	}

	if n, _ := s.Animals().MarkDisposed(ctx, "f1", "ZZ", animals.StatusDead, "Muerte: - "); n != 0 {
		t.Fatalf("expected 0 for unknown tag, got %d", n)
	}
}

func TestResolve_PrefersExactOverPartial(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, ext := range []string{"V-M-LG011", "V-M-LG01"} {
		_ = s.Animals().Upsert(ctx, animals.Animal{FarmID: "f1", ExternalID: ext, Tag: ext[4:], Status: animals.StatusActive})
	}
	got, err := s.Animals().Resolve(ctx, "f1", "lg01", false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ExternalID != "V-M-LG01" {
		t.Fatalf("expected exact match, got %s", got.ExternalID)
	}

	if _, err := s.Animals().Resolve(ctx, "otra", "LG01", false); err != animals.ErrNotFound {
		t.Fatalf("expected ErrNotFound across farms, got %v", err)
	}
}

func TestReset_ScopedToFarm(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Farms().CreateFarm(ctx, farms.Farm{ID: "f1", Name: "Uno", OwnerPhone: "p1"}, farms.User{ID: "u1", Phone: "p1", FarmID: "f1", Role: farms.RoleOwner})
	_ = s.Animals().Upsert(ctx, animals.Animal{FarmID: "f1", ExternalID: "C-1", Tag: "1", Status: animals.StatusActive})
	_ = s.Animals().Upsert(ctx, animals.Animal{FarmID: "f2", ExternalID: "C-2", Tag: "2", Status: animals.StatusActive})
	today := records.DateOf(time.Now())
	_ = s.Records().Append(ctx, records.Record{ID: "r1", FarmID: "f1", Date: today, Kind: records.KindLabor})

	if err := s.Reset(ctx, "f1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if l, _ := s.Animals().ListActive(ctx, "f1"); len(l) != 0 {
		t.Fatalf("f1 animals should be gone, got %d", len(l))
	}
	if l, _ := s.Animals().ListActive(ctx, "f2"); len(l) != 1 {
		t.Fatalf("f2 animals should survive, got %d", len(l))
	}
	if l, _ := s.Records().ListRange(ctx, "f1", today, today); len(l) != 0 {
		t.Fatalf("records should be gone, got %d", len(l))
	}
	if _, err := s.Farms().LookupUser(ctx, "p1"); err != nil {
		t.Fatalf("user should survive reset: %v", err)
	}
}
