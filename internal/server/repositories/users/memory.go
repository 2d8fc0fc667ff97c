package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is used for tests and
// for running the service without a database; nothing survives a restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byEmail    map[string]string
	byUsername map[string]string
	order      []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := prepareNew(user)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byUsername[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	r.order = append(r.order, u.ID)

	return clone(u), nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) lookup(ctx context.Context, index map[string]string, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.lookup(ctx, r.byEmail, email)
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.lookup(ctx, r.byUsername, username)
}

// List returns users in creation order.
func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, clone(r.byID[id]))
	}
	return result, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	upd.Apply(u)
	return clone(u), nil
}
