// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"qiyas/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.RWMutex
	records  map[string]domain.Record
	profile  *domain.Profile
	users    []*domain.User
	sessions map[string]*domain.Session

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		records:  make(map[string]domain.Record),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.RecordRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- RecordRepository ---

// InsertRecord stores a new record.
func (db *DB) InsertRecord(ctx context.Context, r domain.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.records[r.ID]; ok {
		return errors.New("record already exists")
	}
	db.records[r.ID] = r.Clone()
	return nil
}

// UpdateRecord replaces a stored record.
func (db *DB) UpdateRecord(ctx context.Context, r domain.Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.records[r.ID]; !ok {
		return domain.ErrNotFound
	}
	db.records[r.ID] = r.Clone()
	return nil
}

// GetRecord retrieves a record by ID.
func (db *DB) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, ok := db.records[id]
	if !ok {
		return nil, nil
	}
	out := r.Clone()
	return &out, nil
}

// ListRecords lists records in history order.
func (db *DB) ListRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]domain.Record, 0, len(db.records))
	for _, r := range db.records {
		result = append(result, r.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return domain.LessRecord(result[i], result[j])
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindQuickLog returns the newest quick-log record of the given day.
func (db *DB) FindQuickLog(ctx context.Context, day time.Time) (*domain.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	found, ok := db.quickLogOf(day)
	if !ok {
		return nil, nil
	}
	c := found.Clone()
	return &c, nil
}

// UpsertQuickLog inserts r as the quick-log of its day, or updates the weight
// of the day's existing quick-log.
func (db *DB) UpsertQuickLog(ctx context.Context, r domain.Record) (domain.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing, ok := db.quickLogOf(r.Date)
	if !ok {
		if _, dup := db.records[r.ID]; dup {
			return domain.Record{}, errors.New("record already exists")
		}
		db.records[r.ID] = r.Clone()
		return r.Clone(), nil
	}
	updated := existing.Clone()
	if r.Weight != nil {
		w := *r.Weight
		updated.Weight = &w
	}
	updated.UpdatedAt = r.UpdatedAt
	db.records[updated.ID] = updated
	return updated.Clone(), nil
}

// quickLogOf returns the newest quick-log of day. Callers hold mu.
func (db *DB) quickLogOf(day time.Time) (domain.Record, bool) {
	var (
		found domain.Record
		ok    bool
	)
	for _, r := range db.records {
		if !r.QuickLog || !r.Date.Equal(day) {
			continue
		}
		if !ok || domain.LessRecord(r, found) {
			found, ok = r, true
		}
	}
	return found, ok
}

// DeleteRecord deletes a record by ID.
func (db *DB) DeleteRecord(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(db.records, id)
	return nil
}

// DeleteAllRecords removes every record.
func (db *DB) DeleteAllRecords(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.records)
	db.records = make(map[string]domain.Record)
	return n, nil
}

// CountRecords returns the number of records.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.records), nil
}

// --- ProfileRepository ---

// GetProfile returns the saved profile, or nil before the first save.
func (db *DB) GetProfile(ctx context.Context) (*domain.Profile, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.profile == nil {
		return nil, nil
	}
	return cloneProfile(*db.profile), nil
}

// SaveProfile replaces the profile.
func (db *DB) SaveProfile(ctx context.Context, p domain.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profile = cloneProfile(p)
	return nil
}

func cloneProfile(p domain.Profile) *domain.Profile {
	if p.HeightCm != nil {
		h := *p.HeightCm
		p.HeightCm = &h
	}
	if p.Age != nil {
		a := *p.Age
		p.Age = &a
	}
	return &p
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[s.Token] = &s
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if s, ok := r.db.sessions[token]; ok {
		out := *s
		return &out, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all sessions that expired before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
