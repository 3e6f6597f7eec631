package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valedagnoli/daypulse/internal/core/domain"
)

// In-memory repositories backing tests and local development. Each mirrors
// the semantics of its Postgres counterpart (soft deletes, optimistic
// locking, upsert-by-key) without the database.

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if existing.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	habit.CurrentStreak = current
	habit.LongestStreak = longest
	habit.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	return nil
}

type InMemoryEntryRepository struct {
	store map[string]*domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]*domain.HabitEntry),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	for _, e := range r.store {
		if e.HabitID == entry.HabitID && e.DeletedAt == nil &&
			e.CompletionDate.Equal(entry.CompletionDate) {
			return domain.ErrEntryConflict
		}
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) Upsert(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	for _, e := range r.store {
		if e.HabitID == entry.HabitID && e.CompletionDate.Equal(entry.CompletionDate) {
			e.Value = entry.Value
			e.Notes = entry.Notes
			e.Version++
			e.UpdatedAt = time.Now().UTC()
			e.DeletedAt = nil
			*entry = *e
			return nil
		}
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok || entry.DeletedAt != nil {
		return nil, domain.ErrEntryNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *InMemoryEntryRepository) Update(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[entry.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrEntryNotFound
	}
	if existing.Version != entry.Version {
		return domain.ErrEntryConflict
	}

	entry.Version++
	entry.UpdatedAt = time.Now().UTC()
	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.store[id]
	if !ok || entry.DeletedAt != nil || entry.UserID != userID {
		return domain.ErrEntryNotFound
	}

	now := time.Now().UTC()
	entry.DeletedAt = &now
	return nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.HabitEntry
	for _, e := range r.store {
		if e.HabitID == habitID && e.DeletedAt == nil {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sortEntriesByDate(entries)
	return entries, nil
}

func (r *InMemoryEntryRepository) ListByHabitIDAndDateRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.HabitEntry
	for _, e := range r.store {
		if e.HabitID == habitID && e.DeletedAt == nil && inRange(e.CompletionDate, from, to) {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sortEntriesByDate(entries)
	return entries, nil
}

func (r *InMemoryEntryRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.HabitEntry
	for _, e := range r.store {
		if e.UserID == userID && e.DeletedAt == nil && inRange(e.CompletionDate, from, to) {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sortEntriesByDate(entries)
	return entries, nil
}

type InMemoryRoutineRepository struct {
	store map[string]*domain.RoutineEntry

	mu sync.RWMutex
}

func NewInMemoryRoutineRepository() *InMemoryRoutineRepository {
	return &InMemoryRoutineRepository{
		store: make(map[string]*domain.RoutineEntry),
	}
}

func routineKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (r *InMemoryRoutineRepository) Upsert(ctx context.Context, entry *domain.RoutineEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := routineKey(entry.UserID, entry.EntryDate)
	if existing, ok := r.store[key]; ok {
		entry.ID = existing.ID
		entry.Version = existing.Version + 1
	}

	clone := *entry
	r.store[key] = &clone
	return nil
}

func (r *InMemoryRoutineRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.RoutineEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[routineKey(userID, date)]
	if !ok {
		return nil, domain.ErrRoutineNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *InMemoryRoutineRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.RoutineEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.RoutineEntry
	for _, e := range r.store {
		if e.UserID == userID && inRange(e.EntryDate, from, to) {
			clone := *e
			entries = append(entries, &clone)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntryDate.Before(entries[j].EntryDate)
	})
	return entries, nil
}

type InMemoryTradeRepository struct {
	store map[string]*domain.Trade
	seq   int

	mu sync.RWMutex
}

func NewInMemoryTradeRepository() *InMemoryTradeRepository {
	return &InMemoryTradeRepository{
		store: make(map[string]*domain.Trade),
	}
}

func (r *InMemoryTradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}

	// Stable insertion order inside a day, like created_at in Postgres.
	r.seq++
	clone := *trade
	clone.CreatedAt = clone.CreatedAt.Add(time.Duration(r.seq) * time.Microsecond)
	r.store[trade.ID] = &clone
	return nil
}

func (r *InMemoryTradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trade, ok := r.store[id]
	if !ok || trade.DeletedAt != nil {
		return nil, domain.ErrTradeNotFound
	}
	clone := *trade
	return &clone, nil
}

func (r *InMemoryTradeRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trades []*domain.Trade
	for _, t := range r.store {
		if t.UserID == userID && t.DeletedAt == nil && inRange(t.TradeDate, from, to) {
			clone := *t
			trades = append(trades, &clone)
		}
	}

	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].TradeDate.Equal(trades[j].TradeDate) {
			return trades[i].TradeDate.Before(trades[j].TradeDate)
		}
		return trades[i].CreatedAt.Before(trades[j].CreatedAt)
	})
	return trades, nil
}

func (r *InMemoryTradeRepository) Update(ctx context.Context, trade *domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[trade.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrTradeNotFound
	}
	if existing.Version != trade.Version {
		return domain.ErrTradeConflict
	}

	trade.Version++
	trade.UpdatedAt = time.Now().UTC()
	clone := *trade
	r.store[trade.ID] = &clone
	return nil
}

func (r *InMemoryTradeRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade, ok := r.store[id]
	if !ok || trade.DeletedAt != nil || trade.UserID != userID {
		return domain.ErrTradeNotFound
	}

	now := time.Now().UTC()
	trade.DeletedAt = &now
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.store, id)
	return nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

func sortEntriesByDate(entries []*domain.HabitEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CompletionDate.Before(entries[j].CompletionDate)
	})
}
