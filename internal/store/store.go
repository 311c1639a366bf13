// Package store holds the state of the selected publisher package and its
// scenarios, and orchestrates every read and write against the backend.
//
// Scenario lifecycle is created -> loading -> hydrated. A publisher fetch
// installs placeholder scenarios and hydrates them in the background; each
// hydration races independently, so a reader may observe some scenarios
// hydrated and others still loading.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"publisher-planner/internal/model"
	"publisher-planner/internal/scenario"
)

var (
	ErrNoPublisher      = errors.New("store: no publisher loaded")
	ErrScenarioNotFound = errors.New("store: scenario not found")
	ErrInvalidConfig    = errors.New("store: invalid scenario config")
)

// InvalidConfigError carries the validation messages that rejected a config
// edit. It matches ErrInvalidConfig with errors.Is.
type InvalidConfigError struct {
	Key      string
	Messages []model.Message
}

func (e *InvalidConfigError) Error() string {
	codes := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m.Level == model.LevelCritical {
			codes = append(codes, m.Code)
		}
	}
	return fmt.Sprintf("store: invalid value for %s: %s", e.Key, strings.Join(codes, ", "))
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Backend is the REST API the store reads from and writes to.
type Backend interface {
	Publisher(ctx context.Context, id string) (*model.PublisherResponse, error)
	PublisherApc(ctx context.Context, id string) (*model.ApcResponse, error)
	ScenarioJournals(ctx context.Context, id string) (*model.ScenarioResponse, error)
	SaveScenario(ctx context.Context, id string, saved model.SavedScenario) error
	CreateScenario(ctx context.Context, publisherID string, req model.CreateScenarioRequest, copyFrom string) error
	DeleteScenario(ctx context.Context, id string) error
}

type Options struct {
	// AwaitHydration makes FetchPublisher and RefreshPublisher return only
	// after every scenario has been hydrated.
	AwaitHydration bool
	// LogoURL is the logo location template; {publisher} is replaced with
	// the publisher slug.
	LogoURL string
	// NewID overrides scenario id generation.
	NewID func(isDemo bool) string
	// OnHydrate, when set, is told about every finished hydration.
	OnHydrate func(id string, err error)
}

// Store owns publisher and scenario state. All methods are safe for
// concurrent use.
type Store struct {
	backend Backend
	log     *zap.Logger
	opts    Options

	mu    sync.RWMutex
	state state

	flight    singleflight.Group
	hydrating sync.WaitGroup
}

type state struct {
	isLoading bool
	publisher *model.Publisher
	apc       model.Apc
}

func New(backend Backend, log *zap.Logger, opts Options) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = scenario.NewID
	}
	return &Store{
		backend: backend,
		log:     log.Named("store"),
		opts:    opts,
	}
}

// Wait blocks until every background hydration started so far has finished.
func (s *Store) Wait() {
	s.hydrating.Wait()
}

// Clear forgets the loaded publisher and its APC data.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state{}
}

// ClearApc forgets APC data only.
func (s *Store) ClearApc() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.apc = model.Apc{}
}

// findLocked returns the live scenario with id. Callers hold s.mu.
func (s *Store) findLocked(id string) *model.Scenario {
	if s.state.publisher == nil {
		return nil
	}
	for _, sc := range s.state.publisher.Scenarios {
		if sc.ID == id {
			return sc
		}
	}
	return nil
}
