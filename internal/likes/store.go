package likes

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"reelfeed/internal/storage"
)

const (
	defaultCacheSize = 1024

	minDefaultCount  = 100
	defaultCountSpan = 10000
)

// Backend is the durable side of the store.
type Backend interface {
	GetLikeRecord(itemID int64) (*storage.LikeRecord, error)
	SaveLikeRecord(rec *storage.LikeRecord) error
	LikedIDs() ([]int64, error)
}

// Record is the resolved like state of an item.
type Record struct {
	ItemID int64 `json:"id"`
	Liked  bool  `json:"liked"`
	Count  int   `json:"count"`
}

// Store tracks which items the user liked and their displayed like counts.
// Reads may run in parallel; Toggle runs alone.
type Store struct {
	backend Backend
	cache   *lru.Cache[int64, Record]
	logger  zerolog.Logger
	mu      sync.RWMutex
}

func New(backend Backend, cacheSize int, logger zerolog.Logger) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache, err := lru.New[int64, Record](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		backend: backend,
		cache:   cache,
		logger:  logger.With().Str("component", "likes").Logger(),
	}, nil
}

// DefaultCount is the seed like count shown for an item nobody has touched.
// It is 100 plus the xxhash64 of the decimal id modulo 10000, so every
// process computes the same value for the same id.
func DefaultCount(itemID int64) int {
	h := xxhash.Sum64String(strconv.FormatInt(itemID, 10))
	return minDefaultCount + int(h%defaultCountSpan)
}

func (s *Store) DefaultCount(itemID int64) int {
	return DefaultCount(itemID)
}

func (s *Store) IsLiked(itemID int64) bool {
	return s.Get(itemID).Liked
}

func (s *Store) LikeCount(itemID int64) int {
	return s.Get(itemID).Count
}

// Get returns the current record for an item. Storage errors are logged and
// reported as the untouched state.
func (s *Store) Get(itemID int64) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.load(itemID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", itemID).Msg("failed to read like state")
		return Record{ItemID: itemID, Count: DefaultCount(itemID)}
	}
	return rec
}

// load must be called with mu held.
func (s *Store) load(itemID int64) (Record, error) {
	if rec, ok := s.cache.Get(itemID); ok {
		return rec, nil
	}

	stored, err := s.backend.GetLikeRecord(itemID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{ItemID: itemID, Count: DefaultCount(itemID)}
	if stored != nil {
		rec.Liked = stored.Liked
		if stored.HasCount {
			rec.Count = stored.Count
		}
	}

	s.cache.Add(itemID, rec)
	return rec, nil
}

// Toggle flips the like state. Liking adds one to the count; unliking takes
// one away but never goes below zero. Both buckets are persisted before the
// new state becomes visible to readers.
func (s *Store) Toggle(itemID int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(itemID)
	if err != nil {
		return Record{}, err
	}

	if rec.Liked {
		rec.Liked = false
		rec.Count--
		if rec.Count < 0 {
			rec.Count = 0
		}
	} else {
		rec.Liked = true
		rec.Count++
	}

	err = s.backend.SaveLikeRecord(&storage.LikeRecord{
		ItemID:   itemID,
		Liked:    rec.Liked,
		Count:    rec.Count,
		HasCount: true,
	})
	if err != nil {
		s.cache.Remove(itemID)
		return Record{}, err
	}

	s.cache.Add(itemID, rec)

	s.logger.Debug().
		Int64("id", itemID).
		Bool("liked", rec.Liked).
		Int("count", rec.Count).
		Msg("like toggled")

	return rec, nil
}

// TotalLikes sums LikeCount over ids.
func (s *Store) TotalLikes(ids []int64) int {
	total := 0
	for _, id := range ids {
		total += s.LikeCount(id)
	}
	return total
}

// LikedIDs lists liked items, oldest like first.
func (s *Store) LikedIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.LikedIDs()
}

// Purge drops cached records so the next read goes to the backend.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}
