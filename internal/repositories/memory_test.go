package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/fitflix/backend/internal/models"
)

func TestInMemoryUserRepositoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	id, err := repo.Insert(ctx, models.User{Username: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id to be 1 got %d", id)
	}

	second, err := repo.Insert(ctx, models.User{Username: "bob", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("insert second: %v", err)
	}
	if second != 2 {
		t.Fatalf("expected sequential ids got %d", second)
	}

	if _, err := repo.Insert(ctx, models.User{Username: "alice", PasswordHash: "other"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username got %v", err)
	}

	byName, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byName.ID != id || byName.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", byName)
	}
	if byName.Purchases == nil || len(byName.Purchases) != 0 {
		t.Fatalf("expected empty purchase set got %v", byName.Purchases)
	}

	byID, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("unexpected user by id: %+v", byID)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if _, err := repo.FindByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestInMemoryUserRepositoryPurchases(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	id, err := repo.Insert(ctx, models.User{Username: "alice", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.GrantPurchase(id, 2); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := repo.GrantPurchase(id, 2); err != nil {
		t.Fatalf("grant twice: %v", err)
	}

	user, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(user.Purchases) != 1 || !user.Purchases.Contains(2) {
		t.Fatalf("unexpected purchases: %v", user.Purchases)
	}

	user.Purchases[0] = 42
	again, _ := repo.FindByID(ctx, id)
	if again.Purchases.Contains(42) {
		t.Fatal("returned purchase set must not alias stored state")
	}

	if err := repo.GrantPurchase(99, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	repo.Delete(id)
	if _, err := repo.FindByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted user to be gone got %v", err)
	}
	if _, err := repo.Insert(ctx, models.User{Username: "alice", PasswordHash: "hash"}); err != nil {
		t.Fatalf("expected username to be reusable after delete: %v", err)
	}
}

func TestDecodePurchases(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{"empty", "", []int{}, false},
		{"null", "null", []int{}, false},
		{"emptyArray", "[]", []int{}, false},
		{"values", "[2, 4]", []int{2, 4}, false},
		{"malformed", "[2,", nil, true},
		{"wrongType", `{"a":1}`, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodePurchases(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error decoding %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v got %v", tc.want, got)
				}
			}
		})
	}
}

func TestEncodePurchases(t *testing.T) {
	if got, _ := encodePurchases(nil); got != "[]" {
		t.Fatalf("expected [] got %s", got)
	}
	if got, _ := encodePurchases(models.PurchaseSet{3, 1}); got != "[3,1]" {
		t.Fatalf("expected [3,1] got %s", got)
	}
}
