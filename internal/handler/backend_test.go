package handler

import (
	"context"
	"net/http"
	"sync"

	"publisher-planner/internal/api"
	"publisher-planner/internal/model"
)

func ptr(v float64) *float64 { return &v }

// fakeBackend serves one publisher with a single scenario "a".
type fakeBackend struct {
	mu sync.Mutex

	publisher *model.PublisherResponse
	saved     map[string]model.SavedScenario
	apc       *model.ApcResponse
	deleted   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		publisher: &model.PublisherResponse{
			ID:        "package-1",
			Publisher: "Acme",
			Name:      "Package One",
			Scenarios: []model.ScenarioStub{{ID: "a", Name: "Base"}},
			JournalDetail: model.JournalDetail{
				Counts: model.JournalDetailCounts{InScenario: 2},
			},
			Journals: []model.PublisherJournal{
				{IssnL: "1111-1111", Title: "One"},
				{IssnL: "2222-2222", Title: "Two", DataIssues: []string{"no price"}},
			},
			DataFiles: []model.DataFile{
				{Name: "counter", Uploaded: true},
				{Name: "prices", Uploaded: false},
			},
			CostBigdeal: 1000,
		},
		saved: map[string]model.SavedScenario{
			"a": {
				Name: "Base",
				Configs: map[string]any{
					model.ConfigCostBigdeal:         1000.0,
					model.ConfigCostBigdealIncrease: 5.0,
				},
				Subrs: []string{"1111-1111"},
			},
		},
		apc: &model.ApcResponse{
			Headers: []model.ApcHeader{
				{Value: model.ApcHeaderPapers, Raw: ptr(1234)},
				{Value: model.ApcHeaderFractionalAuthorship, Raw: ptr(456.78)},
				{Value: model.ApcHeaderCost, Raw: ptr(2500000)},
			},
			Journals: []map[string]any{{"issn_l": "1111-1111"}},
		},
	}
}

func (f *fakeBackend) Publisher(_ context.Context, id string) (*model.PublisherResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.publisher.ID {
		return nil, &api.StatusError{Method: http.MethodGet, Path: "publisher/" + id, Status: http.StatusNotFound}
	}
	cp := *f.publisher
	return &cp, nil
}

func (f *fakeBackend) PublisherApc(context.Context, string) (*model.ApcResponse, error) {
	return f.apc, nil
}

func (f *fakeBackend) ScenarioJournals(_ context.Context, id string) (*model.ScenarioResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved, ok := f.saved[id]
	if !ok {
		return nil, &api.StatusError{Method: http.MethodGet, Path: "scenario/" + id + "/journals", Status: http.StatusNotFound}
	}
	return &model.ScenarioResponse{
		Journals: []model.Journal{
			{IssnL: "1111-1111", Title: "One", CPU: ptr(2), CostSubscription: 100, CostIll: 10, Usage: 50},
			{IssnL: "2222-2222", Title: "Two", CostSubscription: 200, CostIll: 20, Usage: 5},
		},
		Saved: saved.Clone(),
		Meta:  model.ScenarioMeta{ScenarioID: id},
	}, nil
}

func (f *fakeBackend) SaveScenario(_ context.Context, id string, saved model.SavedScenario) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[id] = saved.Clone()
	return nil
}

func (f *fakeBackend) CreateScenario(_ context.Context, _ string, req model.CreateScenarioRequest, copyFrom string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := model.SavedScenario{Name: req.Name, Configs: map[string]any{}, Subrs: []string{}}
	if src, ok := f.saved[copyFrom]; ok {
		saved = src.Clone()
		saved.Name = req.Name
	}
	f.saved[req.ID] = saved
	return nil
}

func (f *fakeBackend) DeleteScenario(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.saved, id)
	return nil
}

func (f *fakeBackend) savedName(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[id].Name
}

func (f *fakeBackend) savedScenario(id string) model.SavedScenario {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[id].Clone()
}

// gatedBackend holds the first scenario hydration until release is closed.
// Later hydrations go straight through.
type gatedBackend struct {
	*fakeBackend
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		fakeBackend: newFakeBackend(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *gatedBackend) ScenarioJournals(ctx context.Context, id string) (*model.ScenarioResponse, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.fakeBackend.ScenarioJournals(ctx, id)
}
