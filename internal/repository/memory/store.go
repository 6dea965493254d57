// Package memory keeps the trip aggregate in process. It backs the
// DB_DRIVER=memory mode and the usecase tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/split-the-distance/internal/domain"
)

type voteKey struct {
	subject uuid.UUID
	member  uuid.UUID
}

// Store is the shared state behind every in-memory repository.
type Store struct {
	mu sync.RWMutex

	trips       map[uuid.UUID]domain.Trip
	members     map[uuid.UUID]domain.Member
	dateOptions map[uuid.UUID]domain.DateOption
	dateVotes   map[voteKey]domain.DateVote
	locations   map[uuid.UUID]domain.Location
	locVotes    map[voteKey]domain.LocationVote
	distances   map[voteKey]domain.LocationDistance
	options     map[uuid.UUID]domain.TripOption
	optionVotes map[voteKey]domain.OptionVote
	stops       map[uuid.UUID]domain.TripStop
	messages    map[uuid.UUID][]domain.Message
	live        map[voteKey]domain.LiveStatus
}

func NewStore() *Store {
	return &Store{
		trips:       make(map[uuid.UUID]domain.Trip),
		members:     make(map[uuid.UUID]domain.Member),
		dateOptions: make(map[uuid.UUID]domain.DateOption),
		dateVotes:   make(map[voteKey]domain.DateVote),
		locations:   make(map[uuid.UUID]domain.Location),
		locVotes:    make(map[voteKey]domain.LocationVote),
		distances:   make(map[voteKey]domain.LocationDistance),
		options:     make(map[uuid.UUID]domain.TripOption),
		optionVotes: make(map[voteKey]domain.OptionVote),
		stops:       make(map[uuid.UUID]domain.TripStop),
		messages:    make(map[uuid.UUID][]domain.Message),
		live:        make(map[voteKey]domain.LiveStatus),
	}
}
