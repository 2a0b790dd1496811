package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/fitflix/backend/internal/models"
)

// InMemoryUserRepository keeps users in process memory. It backs tests and
// local runs without a database.
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.User
	byName map[string]int64
}

// NewInMemoryUserRepository returns an empty in-memory user store.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:   make(map[int64]models.User),
		byName: make(map[string]int64),
	}
}

// Insert stores the user under the next sequential id.
func (r *InMemoryUserRepository) Insert(_ context.Context, user models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return 0, ErrConflict
	}

	r.nextID++
	user.ID = r.nextID
	user.Purchases = clonePurchases(user.Purchases)
	r.byID[user.ID] = user
	r.byName[user.Username] = user.ID
	return user.ID, nil
}

// FindByUsername looks up a user by username.
func (r *InMemoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return r.copyLocked(id), nil
}

// FindByID looks up a user by id.
func (r *InMemoryUserRepository) FindByID(_ context.Context, id int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[id]; !ok {
		return models.User{}, ErrNotFound
	}
	return r.copyLocked(id), nil
}

// GrantPurchase adds a video to a user's purchase set.
func (r *InMemoryUserRepository) GrantPurchase(id int64, videoID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !user.Purchases.Contains(videoID) {
		user.Purchases = append(clonePurchases(user.Purchases), videoID)
		r.byID[id] = user
	}
	return nil
}

// Delete removes a user. Used by tests exercising tokens for deleted accounts.
func (r *InMemoryUserRepository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.byID[id]; ok {
		delete(r.byName, user.Username)
		delete(r.byID, id)
	}
}

func (r *InMemoryUserRepository) copyLocked(id int64) models.User {
	user := r.byID[id]
	user.Purchases = clonePurchases(user.Purchases)
	return user
}

func clonePurchases(p models.PurchaseSet) models.PurchaseSet {
	if p == nil {
		return models.PurchaseSet{}
	}
	return slices.Clone(p)
}

var _ UserRepository = (*InMemoryUserRepository)(nil)
