// Package filestore keeps every collection as a JSON array in its own file
// under one directory. Each file has one lock owned by the Store; operations
// that touch two files take both locks, itineraries before items.
package filestore

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/yungbote/travelplanner-backend/internal/data/store"
	"github.com/yungbote/travelplanner-backend/internal/domain"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
	"github.com/yungbote/travelplanner-backend/internal/toggle"
)

const (
	collAttractions = "attractions"
	collUsers       = "users"
	collPosts       = "posts"
	collComments    = "comments"
	collItineraries = "itineraries"
	collItems       = "itinerary_items"
)

type Options struct {
	Log *logger.Logger
	Now store.Clock
}

type Store struct {
	dir string
	log *logger.Logger
	now store.Clock

	locksMu sync.Mutex
	locks   map[string]*sync.RWMutex

	attractions *collection[domain.Attraction]
	users       *collection[domain.User]
	posts       *collection[domain.Post]
	comments    *collection[domain.Comment]
	itineraries *collection[domain.Itinerary]
	items       *collection[domain.ItineraryItem]

	likes   toggle.EdgeSet[domain.Like]
	follows toggle.EdgeSet[domain.Follow]
}

var _ store.Backend = (*Store)(nil)

func Open(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filestore: data dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = store.SystemClock
	}
	s := &Store{
		dir:   dir,
		log:   log.With("store", "FileStore"),
		now:   func() time.Time { return domain.Timestamp(now()) },
		locks: map[string]*sync.RWMutex{},
	}
	s.attractions = newCollection[domain.Attraction](s, collAttractions)
	s.users = newCollection[domain.User](s, collUsers)
	s.posts = newCollection[domain.Post](s, collPosts)
	s.comments = newCollection[domain.Comment](s, collComments)
	s.itineraries = newCollection[domain.Itinerary](s, collItineraries)
	s.items = newCollection[domain.ItineraryItem](s, collItems)
	s.likes = NewEdgeSet(s, toggle.Likes)
	s.follows = NewEdgeSet(s, toggle.Follows)
	s.log.Info("file store opened", "dir", dir)
	return s, nil
}

// lockFor returns the single lock guarding the named file.
func (s *Store) lockFor(name string) *sync.RWMutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[name]
	if !ok {
		mu = &sync.RWMutex{}
		s.locks[name] = mu
	}
	return mu
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Likes() toggle.EdgeSet[domain.Like] { return s.likes }

func (s *Store) Follows() toggle.EdgeSet[domain.Follow] { return s.follows }

func (s *Store) Close() error { return nil }
