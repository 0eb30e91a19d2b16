package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/smarttime/internal/model"
)

func newTestSession(id string, ttl time.Duration) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:        id,
		Values:    map[string]string{},
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func TestMemorySessionRepo_CreateAndFind(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()

	s := newTestSession("sess-1", time.Hour)
	s.Values["token"] = "abc"
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByID(ctx, "sess-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Values["token"] != "abc" {
		t.Errorf("Values[token] = %q, want %q", got.Values["token"], "abc")
	}

	// 返却値を変更しても保存済みの値は変わらない
	got.Values["token"] = "mutated"
	again, _ := repo.FindByID(ctx, "sess-1")
	if again.Values["token"] != "abc" {
		t.Errorf("stored value changed through returned copy: %q", again.Values["token"])
	}
}

func TestMemorySessionRepo_FindByID_Missing(t *testing.T) {
	repo := NewMemorySessionRepo()
	got, err := repo.FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestMemorySessionRepo_FindByID_Expired(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, newTestSession("old", -time.Minute))

	got, err := repo.FindByID(ctx, "old")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got != nil {
		t.Error("expired session should not be returned")
	}
}

func TestMemorySessionRepo_SetAndDeleteValue(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, newTestSession("s", time.Hour))

	if err := repo.SetValue(ctx, "s", "token", "t1"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	got, _ := repo.FindByID(ctx, "s")
	if got.Values["token"] != "t1" {
		t.Errorf("Values[token] = %q, want t1", got.Values["token"])
	}

	if err := repo.DeleteValue(ctx, "s", "token"); err != nil {
		t.Fatalf("DeleteValue() error = %v", err)
	}
	got, _ = repo.FindByID(ctx, "s")
	if _, ok := got.Values["token"]; ok {
		t.Error("token should be deleted")
	}
}

func TestMemorySessionRepo_SetValue_MissingSession(t *testing.T) {
	base := time.Now()
	tests := []struct {
		name  string
		setup func(*MemorySessionRepo)
		id    string
	}{
		{"unknown id", func(*MemorySessionRepo) {}, "ghost"},
		{"expired after lookup", func(r *MemorySessionRepo) {
			_ = r.Create(context.Background(), &model.Session{
				ID: "old", Values: map[string]string{}, ExpiresAt: base.Add(time.Minute), CreatedAt: base,
			})
			r.now = func() time.Time { return base.Add(2 * time.Minute) }
		}, "old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemorySessionRepo()
			tt.setup(repo)
			ctx := context.Background()

			err := repo.SetValue(ctx, tt.id, "token", "x")
			if !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("SetValue() error = %v, want ErrSessionNotFound", err)
			}
			repo.now = func() time.Time { return base }
			if got, _ := repo.FindByID(ctx, tt.id); got != nil && got.Values["token"] != "" {
				t.Error("SetValue must not write into a missing or expired session")
			}
		})
	}
}

func TestMemorySessionRepo_DeleteByID(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, newTestSession("s", time.Hour))

	if err := repo.DeleteByID(ctx, "s"); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	if got, _ := repo.FindByID(ctx, "s"); got != nil {
		t.Error("session should be deleted")
	}
}

func TestMemorySessionRepo_DeleteExpired(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, newTestSession("live", time.Hour))
	_ = repo.Create(ctx, newTestSession("dead1", -time.Second))
	_ = repo.Create(ctx, newTestSession("dead2", -time.Hour))

	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if got, _ := repo.FindByID(ctx, "live"); got == nil {
		t.Error("live session should remain")
	}
}

func TestMemorySessionRepo_Ping(t *testing.T) {
	if err := NewMemorySessionRepo().Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
