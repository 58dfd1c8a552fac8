package farms_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/domain/farms"
)

const owner = "whatsapp:+573001112233"

func newService(t *testing.T) (*farms.Service, context.Context) {
	t.Helper()
	return farms.NewService(memory.NewFarmRepo()), context.Background()
}

func TestRegister_Validation(t *testing.T) {
	svc, ctx := newService(t)

	if _, err := svc.Register(ctx, "LE", owner); !errors.Is(err, farms.ErrNameTooShort) {
		t.Fatalf("expected ErrNameTooShort, got %v", err)
	}
	if _, err := svc.Register(ctx, "La Esperanza", "  "); !errors.Is(err, farms.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	f, err := svc.Register(ctx, "  La Esperanza ", "whatsapp:+57 300 111 2233")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if f.Name != "La Esperanza" || f.OwnerPhone != owner {
		t.Fatalf("unexpected farm %+v", f)
	}
	if f.SubscriptionActive {
		t.Fatalf("new farm must start inactive")
	}

	if _, err := svc.Register(ctx, "Otra Finca", owner); !errors.Is(err, farms.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := svc.Register(ctx, "la esperanza", "whatsapp:+573000000000"); !errors.Is(err, farms.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestLookupUser_OwnerRole(t *testing.T) {
	svc, ctx := newService(t)
	f, err := svc.Register(ctx, "La Esperanza", owner)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	uc, err := svc.LookupUser(ctx, owner)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if uc.FarmID != f.ID || uc.Role != farms.RoleOwner {
		t.Fatalf("unexpected user context %+v", uc)
	}
	if uc.SubscriptionValid(time.Now()) {
		t.Fatalf("inactive subscription must not be valid")
	}

	if _, err := svc.LookupUser(ctx, "whatsapp:+570000000000"); !errors.Is(err, farms.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActivate_WorkersAndKey(t *testing.T) {
	svc, ctx := newService(t)
	if _, err := svc.Register(ctx, "La Esperanza", owner); err != nil {
		t.Fatalf("register: %v", err)
	}

	until := time.Date(2030, 1, 1, 15, 30, 0, 0, time.UTC)
	f, err := svc.Activate(ctx, farms.ActivateInput{
		FarmName: "La Esperanza",
		Until:    until,
		// el dueño y los duplicados se ignoran
		Workers: []string{owner, "whatsapp:+573000000001", "whatsapp:+57 300 000 0001"},
	})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !f.SubscriptionActive || f.AccessKey == "" {
		t.Fatalf("expected active farm with key, got %+v", f)
	}
	if want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC); !f.SubscriptionExpiry.Equal(want) {
		t.Fatalf("expiry = %v, want %v", f.SubscriptionExpiry, want)
	}

	uc, err := svc.LookupUser(ctx, "whatsapp:+573000000001")
	if err != nil {
		t.Fatalf("worker lookup: %v", err)
	}
	if uc.Role != farms.RoleWorker || uc.FarmID != f.ID {
		t.Fatalf("unexpected worker context %+v", uc)
	}

	got, err := svc.Authenticate(ctx, f.AccessKey)
	if err != nil || got.ID != f.ID {
		t.Fatalf("authenticate: %+v %v", got, err)
	}
}

func TestActivate_TooManyWorkers(t *testing.T) {
	svc, ctx := newService(t)
	if _, err := svc.Register(ctx, "La Esperanza", owner); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Activate(ctx, farms.ActivateInput{
		FarmName: "La Esperanza",
		Until:    time.Now().AddDate(0, 1, 0),
		Workers: []string{
			"whatsapp:+573000000001",
			"whatsapp:+573000000002",
			"whatsapp:+573000000003",
			"whatsapp:+573000000004",
		},
	})
	if !errors.Is(err, farms.ErrTooManyWorkers) {
		t.Fatalf("expected ErrTooManyWorkers, got %v", err)
	}
}

func TestActivate_RequiresDate(t *testing.T) {
	svc, ctx := newService(t)
	if _, err := svc.Activate(ctx, farms.ActivateInput{FarmName: "La Esperanza"}); !errors.Is(err, farms.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthenticate_RejectsInactive(t *testing.T) {
	svc, ctx := newService(t)
	if _, err := svc.Register(ctx, "La Esperanza", owner); err != nil {
		t.Fatalf("register: %v", err)
	}
	f, err := svc.Activate(ctx, farms.ActivateInput{FarmName: "La Esperanza", Until: time.Now().AddDate(0, 1, 0)})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := svc.Deactivate(ctx, "La Esperanza"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, f.AccessKey); !errors.Is(err, farms.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after deactivation, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, " "); !errors.Is(err, farms.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty key, got %v", err)
	}
}
