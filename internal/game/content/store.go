package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ravenstone/murpg/internal/storage"
)

// Store is the runtime template registry. It is the single writer for all
// template collections; the editor tooling and loot generation both go
// through it. All methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	logger *zap.Logger
	kv     storage.Store

	items    []ItemTemplate
	monsters []MonsterTemplate
	skills   []SkillTemplate
	classes  []ClassTemplate
	events   []EventTemplate
}

// NewStore creates an empty Store persisting categories to kv.
//
// Precondition: logger must be non-nil; kv may be nil, in which case
// persistence is disabled (tests).
func NewStore(logger *zap.Logger, kv storage.Store) *Store {
	return &Store{logger: logger, kv: kv}
}

// nextID returns max(existing ids, 0) + 1. Single logical writer, so the
// read-compute-append sequence under the store lock is sufficient.
func nextID[T any](records []T, id func(T) int) int {
	max := 0
	for _, r := range records {
		if v := id(r); v > max {
			max = v
		}
	}
	return max + 1
}

// persistLocked writes one category through to the save store. Persistence
// failures are logged and swallowed; the in-memory store stays authoritative
// for the session. Caller must hold s.mu.
func persistLocked[T any](s *Store, category Category, records []T) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		s.logger.Error("encoding category", zap.String("category", string(category)), zap.Error(err))
		return
	}
	if err := s.kv.Put(storage.CategoryKey(string(category)), raw); err != nil {
		s.logger.Error("persisting category", zap.String("category", string(category)), zap.Error(err))
	}
}

// --- items ---

// Items returns a copy of the item template collection.
func (s *Store) Items() []ItemTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ItemTemplate, len(s.items))
	copy(out, s.items)
	return out
}

// ItemByID returns the item template with the given id.
//
// Postcondition: the second return value is false when no template matches;
// callers must check it.
func (s *Store) ItemByID(id int) (ItemTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return ItemTemplate{}, false
}

// AddItem validates tmpl, assigns the next id, appends, and persists.
//
// Postcondition: the returned template carries the assigned id.
func (s *Store) AddItem(tmpl ItemTemplate) (ItemTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return ItemTemplate{}, fmt.Errorf("adding item: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl.ID = nextID(s.items, func(t ItemTemplate) int { return t.ID })
	s.items = append(s.items, tmpl)
	persistLocked(s, CategoryItems, s.items)
	return tmpl, nil
}

// UpdateItem applies a mutation to the stored template with the given id.
// Returns false when the id is unknown; the mutation is validated before it
// is committed, so an invalid edit leaves the store unchanged.
func (s *Store) UpdateItem(id int, apply func(*ItemTemplate)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		updated := s.items[i]
		apply(&updated)
		updated.ID = id
		if err := updated.Validate(); err != nil {
			s.logger.Warn("rejecting item update", zap.Int("id", id), zap.Error(err))
			return false
		}
		s.items[i] = updated
		persistLocked(s, CategoryItems, s.items)
		return true
	}
	return false
}

// DeleteItem removes the template with the given id. Returns false on miss.
func (s *Store) DeleteItem(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			persistLocked(s, CategoryItems, s.items)
			return true
		}
	}
	return false
}

// --- monsters ---

// Monsters returns a copy of the monster template collection.
func (s *Store) Monsters() []MonsterTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MonsterTemplate, len(s.monsters))
	copy(out, s.monsters)
	return out
}

// MonsterByID returns the monster template with the given id.
func (s *Store) MonsterByID(id int) (MonsterTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.monsters {
		if t.ID == id {
			return t, true
		}
	}
	return MonsterTemplate{}, false
}

// AddMonster validates tmpl, assigns the next id, appends, and persists.
func (s *Store) AddMonster(tmpl MonsterTemplate) (MonsterTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return MonsterTemplate{}, fmt.Errorf("adding monster: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl.ID = nextID(s.monsters, func(t MonsterTemplate) int { return t.ID })
	s.monsters = append(s.monsters, tmpl)
	persistLocked(s, CategoryMonsters, s.monsters)
	return tmpl, nil
}

// UpdateMonster applies a mutation to the stored template with the given id.
func (s *Store) UpdateMonster(id int, apply func(*MonsterTemplate)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.monsters {
		if s.monsters[i].ID != id {
			continue
		}
		updated := s.monsters[i]
		apply(&updated)
		updated.ID = id
		if err := updated.Validate(); err != nil {
			s.logger.Warn("rejecting monster update", zap.Int("id", id), zap.Error(err))
			return false
		}
		s.monsters[i] = updated
		persistLocked(s, CategoryMonsters, s.monsters)
		return true
	}
	return false
}

// DeleteMonster removes the template with the given id. Returns false on miss.
func (s *Store) DeleteMonster(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.monsters {
		if s.monsters[i].ID == id {
			s.monsters = append(s.monsters[:i], s.monsters[i+1:]...)
			persistLocked(s, CategoryMonsters, s.monsters)
			return true
		}
	}
	return false
}

// --- skills ---

// Skills returns a copy of the skill template collection.
func (s *Store) Skills() []SkillTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SkillTemplate, len(s.skills))
	copy(out, s.skills)
	return out
}

// SkillByID returns the skill template with the given id.
func (s *Store) SkillByID(id int) (SkillTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.skills {
		if t.ID == id {
			return t, true
		}
	}
	return SkillTemplate{}, false
}

// AddSkill validates tmpl, assigns the next id, appends, and persists.
func (s *Store) AddSkill(tmpl SkillTemplate) (SkillTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return SkillTemplate{}, fmt.Errorf("adding skill: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl.ID = nextID(s.skills, func(t SkillTemplate) int { return t.ID })
	s.skills = append(s.skills, tmpl)
	persistLocked(s, CategorySkills, s.skills)
	return tmpl, nil
}

// UpdateSkill applies a mutation to the stored template with the given id.
func (s *Store) UpdateSkill(id int, apply func(*SkillTemplate)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].ID != id {
			continue
		}
		updated := s.skills[i]
		apply(&updated)
		updated.ID = id
		if err := updated.Validate(); err != nil {
			s.logger.Warn("rejecting skill update", zap.Int("id", id), zap.Error(err))
			return false
		}
		s.skills[i] = updated
		persistLocked(s, CategorySkills, s.skills)
		return true
	}
	return false
}

// DeleteSkill removes the template with the given id. Returns false on miss.
func (s *Store) DeleteSkill(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.skills {
		if s.skills[i].ID == id {
			s.skills = append(s.skills[:i], s.skills[i+1:]...)
			persistLocked(s, CategorySkills, s.skills)
			return true
		}
	}
	return false
}

// --- classes ---

// Classes returns a copy of the class template collection.
func (s *Store) Classes() []ClassTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ClassTemplate, len(s.classes))
	copy(out, s.classes)
	return out
}

// ClassByName returns the class template with the given name.
func (s *Store) ClassByName(name string) (ClassTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.classes {
		if t.Name == name {
			return t, true
		}
	}
	return ClassTemplate{}, false
}

// AddClass validates tmpl, assigns the next id, appends, and persists.
func (s *Store) AddClass(tmpl ClassTemplate) (ClassTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return ClassTemplate{}, fmt.Errorf("adding class: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl.ID = nextID(s.classes, func(t ClassTemplate) int { return t.ID })
	s.classes = append(s.classes, tmpl)
	persistLocked(s, CategoryClasses, s.classes)
	return tmpl, nil
}

// --- events ---

// Events returns a copy of the event template collection.
func (s *Store) Events() []EventTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EventTemplate, len(s.events))
	copy(out, s.events)
	return out
}

// EventByID returns the event template with the given id.
func (s *Store) EventByID(id int) (EventTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.events {
		if t.ID == id {
			return t, true
		}
	}
	return EventTemplate{}, false
}

// AddEvent validates tmpl, assigns the next id, appends, and persists.
func (s *Store) AddEvent(tmpl EventTemplate) (EventTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return EventTemplate{}, fmt.Errorf("adding event: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl.ID = nextID(s.events, func(t EventTemplate) int { return t.ID })
	s.events = append(s.events, tmpl)
	persistLocked(s, CategoryEvents, s.events)
	return tmpl, nil
}

// UpdateEvent applies a mutation to the stored template with the given id.
// The event scheduler uses this to re-arm NextSpawn after each firing.
func (s *Store) UpdateEvent(id int, apply func(*EventTemplate)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != id {
			continue
		}
		updated := s.events[i]
		apply(&updated)
		updated.ID = id
		if err := updated.Validate(); err != nil {
			s.logger.Warn("rejecting event update", zap.Int("id", id), zap.Error(err))
			return false
		}
		s.events[i] = updated
		persistLocked(s, CategoryEvents, s.events)
		return true
	}
	return false
}

// DeleteEvent removes the template with the given id. Returns false on miss.
func (s *Store) DeleteEvent(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			persistLocked(s, CategoryEvents, s.events)
			return true
		}
	}
	return false
}
