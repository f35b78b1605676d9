package memory

import (
	"context"
	"sync"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/domain/ports/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo keeps profiles for the lifetime of the process.
// The index lock only guards the map; each entry carries its own mutex so
// read-modify-write cycles on one profile never interleave.
type ProfileRepo struct {
	mu      sync.RWMutex
	entries map[model.UserID]*entry
}

type entry struct {
	mu sync.Mutex
	p  *model.Profile
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{entries: make(map[model.UserID]*entry)}
}

func (r *ProfileRepo) lookup(id model.UserID) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *ProfileRepo) Get(ctx context.Context, id model.UserID) (*model.Profile, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.p.Clone(), nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, id model.UserID, ident model.Identity, now time.Time) (*model.Profile, bool, error) {
	e, ok := r.lookup(id)
	if !ok {
		p, err := model.NewProfile(id, ident, now)
		if err != nil {
			return nil, false, err
		}
		r.mu.Lock()
		// another request may have created it between the two locks
		if e, ok = r.entries[id]; !ok {
			r.entries[id] = &entry{p: p}
			r.mu.Unlock()
			return p.Clone(), true, nil
		}
		r.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.p.ApplyIdentity(ident, now)
	return e.p.Clone(), false, nil
}

func (r *ProfileRepo) Mutate(ctx context.Context, id model.UserID, fn func(p *model.Profile) error) (*model.Profile, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.p.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.p = work
	return work.Clone(), nil
}

func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}
