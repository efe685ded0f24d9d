package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/armazem/internal/db"
	"github.com/erazemk/armazem/internal/equipment"
)

func TestCreateEquipment_Bulk(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ids, err := CreateEquipment(ctx, database, "Drill", "Power tool", "Warehouse A", 3)
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}

	units, err := ListEquipment(ctx, database)
	if err != nil {
		t.Fatalf("ListEquipment: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	for _, u := range units {
		if u.Local == nil || *u.Local != "Warehouse A" {
			t.Errorf("unit %d: expected local 'Warehouse A', got %v", u.ID, u.Local)
		}
		if u.Observation != nil {
			t.Errorf("unit %d: expected nil observation, got %q", u.ID, *u.Observation)
		}
		if u.LastUsedAt != nil {
			t.Errorf("unit %d: expected nil last used, got %v", u.ID, u.LastUsedAt)
		}
	}
}

func TestCreateEquipment_RejectsBlankLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateEquipment(ctx, database, "Drill", "Power tool", "  ", 1); !errors.Is(err, equipment.ErrBlankLocation) {
		t.Fatalf("expected ErrBlankLocation, got %v", err)
	}
	units, _ := ListEquipment(ctx, database)
	if len(units) != 0 {
		t.Errorf("expected no units, got %d", len(units))
	}
}

func TestTransitionEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ids, _ := CreateEquipment(ctx, database, "Ladder", "Access", "Warehouse A", 1)
	id := ids[0]
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	inUse, _ := equipment.MarkInUse("Site 7")
	unit, err := TransitionEquipment(ctx, database, id, inUse, now)
	if err != nil {
		t.Fatalf("TransitionEquipment: %v", err)
	}
	if unit.Local != nil || unit.Observation == nil || *unit.Observation != "Site 7" {
		t.Fatalf("expected unit at Site 7, got %+v", unit)
	}

	got, _ := GetEquipment(ctx, database, id)
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(now) {
		t.Errorf("expected last used %v, got %v", now, got.LastUsedAt)
	}
	if got.Local != nil {
		t.Errorf("expected nil local while in use, got %q", *got.Local)
	}

	back, _ := equipment.ReturnToWarehouse("Warehouse B")
	later := now.Add(48 * time.Hour)
	if _, err := TransitionEquipment(ctx, database, id, back, later); err != nil {
		t.Fatalf("TransitionEquipment: %v", err)
	}
	got, _ = GetEquipment(ctx, database, id)
	if got.Observation != nil || got.Local == nil || *got.Local != "Warehouse B" {
		t.Fatalf("expected unit in Warehouse B, got %+v", got)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(later) {
		t.Errorf("expected last used %v, got %v", later, got.LastUsedAt)
	}

	// Moving between warehouses is not usage.
	shelf, _ := equipment.ReturnToWarehouse("Warehouse C")
	if _, err := TransitionEquipment(ctx, database, id, shelf, later.Add(24*time.Hour)); err != nil {
		t.Fatalf("TransitionEquipment: %v", err)
	}
	got, _ = GetEquipment(ctx, database, id)
	if got.Local == nil || *got.Local != "Warehouse C" {
		t.Fatalf("expected unit in Warehouse C, got %+v", got)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(later) {
		t.Errorf("expected last used to stay %v, got %v", later, got.LastUsedAt)
	}
}

func TestTransitionEquipment_NotFound(t *testing.T) {
	database := db.NewTestDB(t)
	state, _ := equipment.MarkInUse("Site")
	if _, err := TransitionEquipment(context.Background(), database, 42, state, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ids, _ := CreateEquipment(ctx, database, "Saw", "Power tool", "A", 1)
	if err := DeleteEquipment(ctx, database, ids[0]); err != nil {
		t.Fatalf("DeleteEquipment: %v", err)
	}
	if err := DeleteEquipment(ctx, database, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
