package profilesync

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Snapshot - снимок состояния кэша для отката оптимистичной мутации.
type Snapshot struct {
	Profiles []Profile
	ActiveID string
	version  uint64
}

// Cache - единственный владелец локального представления профилей.
//
// Инварианты:
//   - id уникальны;
//   - если профили есть, ActiveID совпадает с id ровно одного из них;
//   - если профилей нет, ActiveID == "".
//
// Все записи идут через методы Cache. Персистится только id активного
// профиля, и только best-effort: сбой хранилища не влияет на память.
type Cache struct {
	mu        sync.RWMutex
	profiles  []Profile
	activeID  string
	version   uint64
	restored  string
	persister ActivePersister
	log       *slog.Logger
}

// NewCache создаёт пустой кэш. persister может быть nil.
func NewCache(persister ActivePersister, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}

	return &Cache{persister: persister, log: log}
}

// Bootstrap читает сохранённый id активного профиля. Значение используется
// как подсказка при первом SetProfiles. Ошибки чтения проглатываются.
func (c *Cache) Bootstrap(ctx context.Context, loader ActiveLoader) {
	if loader == nil {
		return
	}

	id, err := loader.Load(ctx)
	if err != nil {
		c.log.Debug("active_id_load_failed", slog.String("err", err.Error()))
		return
	}

	c.mu.Lock()
	c.restored = id
	c.mu.Unlock()
}

// Profiles возвращает копию коллекции в исходном порядке.
func (c *Cache) Profiles() []Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.profiles)
}

// ActiveID возвращает id активного профиля ("" - профилей нет).
func (c *Cache) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.activeID
}

// Active возвращает активный профиль.
func (c *Cache) Active() (Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := indexOf(c.profiles, c.activeID); i >= 0 {
		return c.profiles[i], true
	}

	return Profile{}, false
}

// Get возвращает профиль по id.
func (c *Cache) Get(id string) (Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := indexOf(c.profiles, id); i >= 0 {
		return c.profiles[i], true
	}

	return Profile{}, false
}

// Version - счётчик записей; растёт при каждом изменении состояния.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// SetProfiles целиком заменяет коллекцию и возвращает выбранный активный id
// (см. NextActive). Дубликаты id отбрасываются, первое вхождение сохраняется.
func (c *Cache) SetProfiles(profiles []Profile, hint string) string {
	c.mu.Lock()
	if hint == "" {
		hint = c.restored
	}
	c.restored = ""
	active := c.setLocked(profiles, hint)
	c.mu.Unlock()

	c.persist(active)

	return active
}

// SetActive делает профиль активным. Возвращает false (no-op), если id пуст
// при непустой коллекции либо профиля с таким id нет.
func (c *Cache) SetActive(id string) bool {
	c.mu.Lock()
	if id == "" && len(c.profiles) > 0 {
		c.mu.Unlock()
		return false
	}

	if id != "" && !containsID(c.profiles, id) {
		c.mu.Unlock()
		return false
	}

	c.activeID = id
	c.version++
	c.mu.Unlock()

	c.persist(id)

	return true
}

// Snapshot фиксирует текущее состояние.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		Profiles: slices.Clone(c.profiles),
		ActiveID: c.activeID,
		version:  c.version,
	}
}

// Restore возвращает кэш к снимку в точности (профили и активный id).
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	c.profiles = slices.Clone(s.Profiles)
	c.activeID = s.ActiveID
	c.version++
	c.mu.Unlock()

	c.persist(s.ActiveID)
}

// mutate применяет fn к копии коллекции под блокировкой и пересчитывает активный;
// fn получает текущий активный id и возвращает подсказку для NextActive.
// Возвращает снимок, снятый под той же блокировкой до записи, и версию после неё.
func (c *Cache) mutate(fn func(profiles []Profile, active string) ([]Profile, string)) (Snapshot, uint64) {
	c.mu.Lock()
	before := Snapshot{
		Profiles: slices.Clone(c.profiles),
		ActiveID: c.activeID,
		version:  c.version,
	}
	profiles, hint := fn(slices.Clone(c.profiles), c.activeID)
	active := c.setLocked(profiles, hint)
	version := c.version
	c.mu.Unlock()

	c.persist(active)

	return before, version
}

// rollback откатывает мутацию, применённую на версии applied.
// Снимок s должен непосредственно предшествовать этой мутации (его вернул mutate).
// Если после неё записей не было - восстанавливается снимок в точности.
// Иначе снимок перетёр бы чужой результат, поэтому применяется только
// undo самой мутации. Возвращает true при точном восстановлении.
func (c *Cache) rollback(s Snapshot, applied uint64, undo func(profiles []Profile, active string) ([]Profile, string)) bool {
	c.mu.Lock()
	if c.version == applied && s.version+1 == applied {
		c.profiles = slices.Clone(s.Profiles)
		c.activeID = s.ActiveID
		c.version++
		c.mu.Unlock()

		c.persist(s.ActiveID)

		return true
	}

	profiles, hint := undo(slices.Clone(c.profiles), c.activeID)
	active := c.setLocked(profiles, hint)
	c.mu.Unlock()

	c.persist(active)

	return false
}

// setLocked заменяет коллекцию с дедупликацией и выбором активного. Требует c.mu.
func (c *Cache) setLocked(profiles []Profile, hint string) string {
	unique := make([]Profile, 0, len(profiles))
	seen := make(map[string]struct{}, len(profiles))

	for _, p := range profiles {
		if _, dup := seen[p.ID]; dup {
			c.log.Warn("duplicate_profile_id_dropped", slog.String("id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		unique = append(unique, p)
	}

	c.activeID = NextActive(c.activeID, hint, unique)
	c.profiles = unique
	c.version++

	return c.activeID
}

// persist передаёт id в персистер. Временные id не сохраняются:
// после перезапуска они ни на что не ссылаются.
func (c *Cache) persist(id string) {
	if c.persister == nil || IsTempID(id) {
		return
	}

	c.persister.TrySave(id)
}
