package repository

import (
	"context"
	"testing"

	"food-court/internal/domain"

	"github.com/google/uuid"
)

func TestEnterpriseRepository_CreateAndFind(t *testing.T) {
	repo := NewEnterpriseRepository(testDB)
	ctx := context.Background()

	enterprise := &domain.Enterprise{
		ID:           uuid.New(),
		Name:         "Taqueria Central",
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "hash",
		Address: domain.Address{
			Street: "Main St",
			Number: 42,
			City:   "Springfield",
			State:  "SP",
		},
		IsOpen: true,
	}

	if err := repo.Create(ctx, enterprise); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, enterprise.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Name != enterprise.Name || found.Address.Street != "Main St" || found.Address.Number != 42 {
		t.Errorf("stored enterprise differs: %+v", found)
	}

	duplicate := *enterprise
	duplicate.ID = uuid.New()
	if err := repo.Create(ctx, &duplicate); !domain.IsKind(err, domain.KindConflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestEnterpriseRepository_SearchByName(t *testing.T) {
	repo := NewEnterpriseRepository(testDB)
	ctx := context.Background()

	target := &domain.Enterprise{
		ID:           uuid.New(),
		Name:         "Luigi Trattoria " + uuid.New().String()[:8],
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "hash",
		Address:      domain.Address{Street: "Via Roma", Number: 1, City: "Springfield", State: "SP"},
		IsOpen:       true,
	}
	if err := repo.Create(ctx, target); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := repo.SearchByName(ctx, "luigi trattoria")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	found := false
	for _, e := range results {
		if e.ID == target.ID {
			found = true
		}
	}
	if !found {
		t.Error("case-insensitive partial search did not return the enterprise")
	}
}

func TestEnterpriseRepository_PatchMissingRow(t *testing.T) {
	repo := NewEnterpriseRepository(testDB)
	ctx := context.Background()

	missing := uuid.New()

	if err := repo.SetOpen(ctx, missing, true); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("SetOpen: expected not_found, got %v", err)
	}
	if err := repo.SetOpeningHours(ctx, missing, "Mon-Fri 9-18"); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("SetOpeningHours: expected not_found, got %v", err)
	}
	if err := repo.SetLogoURL(ctx, missing, "logo.png"); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("SetLogoURL: expected not_found, got %v", err)
	}
}

func TestEnterpriseRepository_SetOpen(t *testing.T) {
	repo := NewEnterpriseRepository(testDB)
	ctx := context.Background()

	id := insertEnterprise(t)

	if err := repo.SetOpen(ctx, id, false); err != nil {
		t.Fatalf("SetOpen failed: %v", err)
	}

	found, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.IsOpen {
		t.Error("enterprise should be closed after SetOpen(false)")
	}
}

func TestClientRepository_DuplicateEmail(t *testing.T) {
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	email := uuid.New().String() + "@example.com"

	first := &domain.Client{ID: uuid.New(), Name: "Ana", Email: email, PasswordHash: "hash"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := &domain.Client{ID: uuid.New(), Name: "Ana Again", Email: email, PasswordHash: "hash"}
	if err := repo.Create(ctx, second); !domain.IsKind(err, domain.KindConflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}

	found, err := repo.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("found wrong client: %s", found.ID)
	}

	if _, err := repo.FindByEmail(ctx, "missing-"+email); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("expected not_found for unknown email, got %v", err)
	}
}
