package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/utils"
)

func TestUserCreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	name := "Ada"
	id, err := repo.Create(ctx, &name, " Ada@Example.COM ", "hunter22", model.RoleAdmin, 4)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("lookup by normalized email", func(t *testing.T) {
		u, hash, err := repo.GetByEmail(ctx, "ADA@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if u.ID != id {
			t.Errorf("id got = %d, want %d", u.ID, id)
		}
		if u.Role != model.RoleAdmin {
			t.Errorf("role got = %q, want ADMIN", u.Role)
		}
		if !utils.VerifyPassword(hash, "hunter22") {
			t.Error("stored hash does not verify against the password")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := repo.Create(ctx, nil, "ada@example.com", "pw", model.RoleGuest, 4); !errors.Is(err, ErrEmailExists) {
			t.Errorf("Create() duplicate error = %v, want ErrEmailExists", err)
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
	})

	t.Run("find id by email", func(t *testing.T) {
		got, err := repo.FindIDByEmail(ctx, "ada@example.com")
		if err != nil {
			t.Fatalf("FindIDByEmail() error = %v", err)
		}
		if got == nil || *got != id {
			t.Errorf("FindIDByEmail() = %v, want %d", got, id)
		}
		missing, err := repo.FindIDByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("FindIDByEmail() error = %v", err)
		}
		if missing != nil {
			t.Errorf("FindIDByEmail() for unknown address = %v, want nil", *missing)
		}
	})
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewTokenRepo(db)
	userID := createTestUser(t, db, "session@example.com")

	hash := utils.HashRefreshRaw("raw-refresh-token")
	if err := repo.StoreRefresh(ctx, userID, hash, time.Now().UTC().Add(24*time.Hour)); err != nil {
		t.Fatalf("StoreRefresh() error = %v", err)
	}

	got, err := repo.ValidateRefresh(ctx, hash)
	if err != nil {
		t.Fatalf("ValidateRefresh() error = %v", err)
	}
	if got != userID {
		t.Errorf("ValidateRefresh() = %d, want %d", got, userID)
	}

	t.Run("expired token is rejected", func(t *testing.T) {
		old := utils.HashRefreshRaw("old-token")
		if err := repo.StoreRefresh(ctx, userID, old, time.Now().UTC().Add(-time.Minute)); err != nil {
			t.Fatalf("StoreRefresh() error = %v", err)
		}
		if _, err := repo.ValidateRefresh(ctx, old); !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("ValidateRefresh() expired error = %v, want sql.ErrNoRows", err)
		}
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		if err := repo.RevokeByHash(ctx, hash); err != nil {
			t.Fatalf("RevokeByHash() error = %v", err)
		}
		if _, err := repo.ValidateRefresh(ctx, hash); !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("ValidateRefresh() revoked error = %v, want sql.ErrNoRows", err)
		}
	})

	t.Run("revoke all sessions", func(t *testing.T) {
		h2 := utils.HashRefreshRaw("second-device")
		if err := repo.StoreRefresh(ctx, userID, h2, time.Now().UTC().Add(24*time.Hour)); err != nil {
			t.Fatalf("StoreRefresh() error = %v", err)
		}
		if err := repo.RevokeAllForUser(ctx, userID); err != nil {
			t.Fatalf("RevokeAllForUser() error = %v", err)
		}
		if _, err := repo.ValidateRefresh(ctx, h2); !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("ValidateRefresh() after revoke-all error = %v, want sql.ErrNoRows", err)
		}
	})
}
