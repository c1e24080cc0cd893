package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

type wishRepository struct {
	mu     sync.RWMutex
	wishes map[int64]*models.Wish
	nextID int64
}

// NewWishRepository creates an in-memory wish repository
func NewWishRepository() repository.WishRepository {
	return &wishRepository{wishes: make(map[int64]*models.Wish), nextID: 1}
}

func (r *wishRepository) Create(_ context.Context, wish *models.Wish) (*models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wish.Type == "" {
		wish.Type = models.WishTypeMine
	}
	if wish.CreatedAt.IsZero() {
		wish.CreatedAt = time.Now()
	}
	wish.CreatedAt = wish.CreatedAt.Truncate(time.Second)

	wish.ID = r.nextID
	r.nextID++

	stored := *wish
	r.wishes[wish.ID] = &stored
	return wish, nil
}

func (r *wishRepository) GetByID(_ context.Context, id int64) (*models.Wish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wish, ok := r.wishes[id]
	if !ok {
		return nil, nil
	}
	copied := *wish
	return &copied, nil
}

func (r *wishRepository) Update(_ context.Context, wish *models.Wish) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.wishes[wish.ID]
	if !ok {
		return false, nil
	}
	existing.Title = wish.Title
	existing.Description = wish.Description
	existing.ImageID = wish.ImageID
	existing.Type = wish.Type
	return true, nil
}

func (r *wishRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wishes[id]; !ok {
		return false, nil
	}
	delete(r.wishes, id)
	return true, nil
}

func (r *wishRepository) ListOwn(_ context.Context, userID int64) ([]*models.Wish, error) {
	return r.list(func(w *models.Wish) bool {
		return w.CreatedBy == userID && w.Type == models.WishTypeMine
	}), nil
}

func (r *wishRepository) ListOfPartner(_ context.Context, viewer *models.User) ([]*models.Wish, error) {
	if !viewer.HasPartner() {
		return nil, nil
	}
	partner := *viewer.PartnerID
	return r.list(func(w *models.Wish) bool {
		return w.CreatedBy == partner && w.Type == models.WishTypeMine
	}), nil
}

func (r *wishRepository) list(match func(*models.Wish) bool) []*models.Wish {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wishes []*models.Wish
	for _, w := range r.wishes {
		if match(w) {
			copied := *w
			wishes = append(wishes, &copied)
		}
	}
	sort.Slice(wishes, func(i, j int) bool {
		if !wishes[i].CreatedAt.Equal(wishes[j].CreatedAt) {
			return wishes[i].CreatedAt.After(wishes[j].CreatedAt)
		}
		return wishes[i].ID < wishes[j].ID
	})
	return wishes
}
