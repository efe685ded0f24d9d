package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/armazem/internal/auth"
	"github.com/erazemk/armazem/internal/db"
	"github.com/erazemk/armazem/internal/model"
	"github.com/erazemk/armazem/internal/store"
)

func TestGeneratePassword(t *testing.T) {
	pw, err := generatePassword(16)
	if err != nil {
		t.Fatalf("generatePassword: %v", err)
	}
	if len(pw) != 16 {
		t.Errorf("expected 16 chars, got %d", len(pw))
	}
	other, _ := generatePassword(16)
	if pw == other {
		t.Error("expected different passwords")
	}
}

func TestCreateFirstBoss(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	password, err := createFirstBoss(ctx, database, "admin")
	if err != nil {
		t.Fatalf("createFirstBoss: %v", err)
	}
	if password == "" {
		t.Fatal("expected a generated password")
	}

	user, _ := store.GetUserByUsername(ctx, database, "admin")
	if user == nil || user.Role != model.RoleBoss {
		t.Fatalf("expected boss user, got %+v", user)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		t.Error("generated password does not match stored hash")
	}

	// Second run leaves existing accounts alone.
	again, err := createFirstBoss(ctx, database, "admin")
	if err != nil {
		t.Fatalf("createFirstBoss: %v", err)
	}
	if again != "" {
		t.Error("expected no new account when users exist")
	}
}

func TestUserAddAndLookup(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "armazem.sqlite3")

	if err := cmdUserAdd([]string{"-db", dsn, "-u", "maria", "-r", "boss", "-p", "longenough"}); err != nil {
		t.Fatalf("useradd: %v", err)
	}
	if err := cmdUserAdd([]string{"-db", dsn, "-u", "joao", "-r", "manager", "-p", "longenough"}); err == nil || !strings.Contains(err.Error(), "invalid role") {
		t.Errorf("expected invalid role error, got %v", err)
	}
	if err := cmdLookup([]string{"add", "-db", dsn, "-kind", "location", "-name", "Armazém 1"}); err != nil {
		t.Fatalf("lookup add: %v", err)
	}
	if err := cmdLookup([]string{"add", "-db", dsn, "-kind", "colour", "-name", "x"}); err == nil {
		t.Error("expected error for unknown kind")
	}

	database, err := db.Open(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	user, _ := store.GetUserByUsername(context.Background(), database, "maria")
	if user == nil || user.Role != model.RoleBoss {
		t.Errorf("expected boss maria, got %+v", user)
	}
	locations, _ := store.ListLookup(context.Background(), database, store.LookupStorageLocations)
	if len(locations) != 1 || locations[0] != "Armazém 1" {
		t.Errorf("expected [Armazém 1], got %v", locations)
	}
}
