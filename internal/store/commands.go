package store

import (
	"context"

	"github.com/stoewer/go-strcase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"publisher-planner/internal/configs"
	"publisher-planner/internal/jsonpatch"
	"publisher-planner/internal/model"
	"publisher-planner/internal/scenario"
)

// FetchPublisher loads the publisher with id unless it is already loaded.
// Concurrent fetches of the same id share one request.
func (s *Store) FetchPublisher(ctx context.Context, id string) error {
	if id != "" && s.PublisherID() == id {
		return nil
	}
	_, err, _ := s.flight.Do("publisher:"+id, func() (any, error) {
		if id != "" && s.PublisherID() == id {
			return nil, nil
		}
		return nil, s.loadPublisher(ctx, id)
	})
	return err
}

// RefreshPublisher reloads the current publisher.
func (s *Store) RefreshPublisher(ctx context.Context) error {
	id := s.PublisherID()
	if id == "" {
		return ErrNoPublisher
	}
	return s.loadPublisher(ctx, id)
}

func (s *Store) loadPublisher(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.backend.Publisher(ctx, id)
	if err != nil {
		return err
	}

	pub := publisherFromResponse(resp)
	ids := make([]string, len(pub.Scenarios))
	for i, sc := range pub.Scenarios {
		ids[i] = sc.ID
	}

	s.mu.Lock()
	s.state.publisher = pub
	s.mu.Unlock()

	s.log.Info("publisher loaded",
		zap.String("publisher_id", pub.ID),
		zap.Int("scenarios", len(ids)),
		zap.Int("journals", len(pub.Journals)),
	)

	if s.opts.AwaitHydration {
		g, gctx := errgroup.WithContext(ctx)
		for _, scenarioID := range ids {
			scenarioID := scenarioID
			g.Go(func() error {
				return s.HydrateScenario(gctx, scenarioID)
			})
		}
		return g.Wait()
	}

	for _, scenarioID := range ids {
		s.hydrateInBackground(ctx, scenarioID)
	}
	return nil
}

func publisherFromResponse(resp *model.PublisherResponse) *model.Publisher {
	pub := &model.Publisher{
		ID:                  resp.ID,
		Publisher:           resp.Publisher,
		Name:                resp.Name,
		IsDemo:              resp.IsDemo,
		Scenarios:           make([]*model.Scenario, len(resp.Scenarios)),
		JournalDetail:       resp.JournalDetail,
		JournalCounts:       resp.JournalDetail.JournalCounts(),
		Journals:            resp.Journals,
		DataFiles:           make([]model.DataFile, len(resp.DataFiles)),
		BigDealCost:         resp.CostBigdeal,
		IsOwnedByConsortium: resp.IsOwnedByConsortium,
	}
	if pub.Journals == nil {
		pub.Journals = []model.PublisherJournal{}
	}
	for i, stub := range resp.Scenarios {
		pub.Scenarios[i] = scenario.New(stub.ID, stub.Name)
	}
	for i, f := range resp.DataFiles {
		f.Name = f.NormalizedName()
		f.ID = strcase.LowerCamelCase(f.Name)
		pub.DataFiles[i] = f
		if f.Name == "counter" && f.Uploaded {
			pub.CounterIsUploaded = true
		}
	}
	return pub
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.isLoading = v
	s.mu.Unlock()
}

// hydrateInBackground starts a hydration that outlives ctx's cancellation.
// Failures are logged; the scenario stays in its loading state.
func (s *Store) hydrateInBackground(ctx context.Context, id string) {
	bg := context.WithoutCancel(ctx)
	s.hydrating.Add(1)
	go func() {
		defer s.hydrating.Done()
		if err := s.HydrateScenario(bg, id); err != nil {
			s.log.Error("scenario hydration failed", zap.String("scenario_id", id), zap.Error(err))
		}
	}()
}

// HydrateScenario fetches the server-computed journals of a scenario and
// merges them onto the in-memory scenario. Configs edited locally are kept.
// A response for a scenario that is no longer loaded is dropped.
func (s *Store) HydrateScenario(ctx context.Context, id string) (err error) {
	if s.opts.OnHydrate != nil {
		defer func() { s.opts.OnHydrate(id, err) }()
	}
	resp, err := s.backend.ScenarioJournals(ctx, id)
	if err != nil {
		return err
	}
	hydrated := scenario.Build(resp, resp.Saved.Subrs)

	s.mu.Lock()
	defer s.mu.Unlock()
	sc := s.findLocked(id)
	if sc == nil {
		s.log.Debug("dropping hydration for unknown scenario", zap.String("scenario_id", id))
		return nil
	}
	scenario.Merge(sc, hydrated)
	return nil
}

// awaitHydrated hydrates the scenario with id now if it is still loading.
// Writes call it first so a placeholder's empty configs and subscriptions
// are never saved over the server's.
func (s *Store) awaitHydrated(ctx context.Context, id string) error {
	s.mu.RLock()
	sc := s.findLocked(id)
	loading := sc != nil && sc.IsLoading
	s.mu.RUnlock()
	if sc == nil {
		return ErrScenarioNotFound
	}
	if !loading {
		return nil
	}
	s.log.Debug("hydrating before write", zap.String("scenario_id", id))
	return s.HydrateScenario(ctx, id)
}

// FetchApc loads the publisher's APC report. Errors are logged and leave the
// previous APC state in place.
func (s *Store) FetchApc(ctx context.Context, id string) {
	s.mu.Lock()
	s.state.apc.IsLoading = true
	s.mu.Unlock()

	resp, err := s.backend.PublisherApc(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.apc.IsLoading = false
	if err != nil {
		s.log.Warn("error loading publisher APC", zap.String("publisher_id", id), zap.Error(err))
		return
	}
	s.state.apc.PapersCount = resp.Header(model.ApcHeaderPapers)
	s.state.apc.AuthorsFractionalCount = resp.Header(model.ApcHeaderFractionalAuthorship)
	s.state.apc.Cost = resp.Header(model.ApcHeaderCost)
	s.state.apc.Headers = resp.Headers
	s.state.apc.Journals = resp.Journals
}

// CreateScenario adds a new scenario with a client-generated id, registers
// it with the server and starts its hydration. The placeholder stays in the
// list if the server rejects it.
func (s *Store) CreateScenario(ctx context.Context) (string, error) {
	s.mu.Lock()
	pub := s.state.publisher
	if pub == nil {
		s.mu.Unlock()
		return "", ErrNoPublisher
	}
	id := s.opts.NewID(pub.IsDemo)
	pub.Scenarios = append(pub.Scenarios, scenario.New(id, scenario.DefaultName))
	publisherID := pub.ID
	s.mu.Unlock()

	req := model.CreateScenarioRequest{ID: id, Name: scenario.DefaultName}
	if err := s.backend.CreateScenario(ctx, publisherID, req, ""); err != nil {
		return id, err
	}
	s.hydrateInBackground(ctx, id)
	return id, nil
}

// CopyScenario duplicates a scenario under a new id and name.
func (s *Store) CopyScenario(ctx context.Context, id, newName string) (string, error) {
	if s.PublisherID() == "" {
		return "", ErrNoPublisher
	}
	if err := s.awaitHydrated(ctx, id); err != nil {
		return "", err
	}

	s.mu.Lock()
	pub := s.state.publisher
	if pub == nil {
		s.mu.Unlock()
		return "", ErrNoPublisher
	}
	src := s.findLocked(id)
	if src == nil {
		s.mu.Unlock()
		return "", ErrScenarioNotFound
	}
	clone := src.Clone()
	clone.ID = s.opts.NewID(pub.IsDemo)
	clone.Saved.Name = newName
	pub.Scenarios = append(pub.Scenarios, clone)
	newID, publisherID := clone.ID, pub.ID
	s.mu.Unlock()

	req := model.CreateScenarioRequest{ID: newID, Name: newName}
	return newID, s.backend.CreateScenario(ctx, publisherID, req, id)
}

// RenameScenario renames a scenario and saves it.
func (s *Store) RenameScenario(ctx context.Context, id, newName string) error {
	if err := s.awaitHydrated(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	sc := s.findLocked(id)
	if sc == nil {
		s.mu.Unlock()
		return ErrScenarioNotFound
	}
	sc.Saved.Name = newName
	saved := sc.Saved.Clone()
	s.mu.Unlock()

	return s.backend.SaveScenario(ctx, id, saved)
}

// ConfigResult describes an accepted config edit.
type ConfigResult struct {
	Messages []model.Message `json:"messages"`
	// Changes is the patch from the scenario's saved state and projection
	// before the edit to the re-hydrated state after it.
	Changes []jsonpatch.Op `json:"changes"`
}

type configView struct {
	Saved                model.SavedScenario `json:"saved"`
	CostBigdealProjected float64             `json:"costBigdealProjected"`
}

// SetScenarioConfig validates and sets one config value, saves the scenario
// and re-hydrates it so its journals reflect the server's recalculation.
func (s *Store) SetScenarioConfig(ctx context.Context, id, key string, value any) (*ConfigResult, error) {
	msgs := configs.Validate(key, value)
	if model.HasCritical(msgs) {
		return nil, &InvalidConfigError{Key: key, Messages: msgs}
	}
	if err := s.awaitHydrated(ctx, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sc := s.findLocked(id)
	if sc == nil {
		s.mu.Unlock()
		return nil, ErrScenarioNotFound
	}
	before := configView{Saved: sc.Saved.Clone(), CostBigdealProjected: sc.CostBigdealProjected}
	if sc.Saved.Configs == nil {
		sc.Saved.Configs = map[string]any{}
	}
	sc.Saved.Configs[key] = value
	saved := sc.Saved.Clone()
	s.mu.Unlock()

	if err := s.backend.SaveScenario(ctx, id, saved); err != nil {
		return nil, err
	}
	if err := s.HydrateScenario(ctx, id); err != nil {
		return nil, err
	}

	result := &ConfigResult{Messages: msgs}
	if after, ok := s.Scenario(id); ok {
		changes, err := jsonpatch.Values(before, configView{Saved: after.Saved, CostBigdealProjected: after.CostBigdealProjected})
		if err != nil {
			s.log.Warn("config diff failed", zap.String("scenario_id", id), zap.Error(err))
		}
		result.Changes = changes
	}
	s.log.Info("scenario config saved",
		zap.String("scenario_id", id),
		zap.String("key", key),
		zap.Int("changes", len(result.Changes)),
	)
	return result, nil
}

// DeleteScenario removes the scenario with id locally and on the server.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	if pub := s.state.publisher; pub != nil {
		kept := pub.Scenarios[:0:0]
		for _, sc := range pub.Scenarios {
			if sc.ID != id {
				kept = append(kept, sc)
			}
		}
		pub.Scenarios = kept
	}
	s.mu.Unlock()

	return s.backend.DeleteScenario(ctx, id)
}
