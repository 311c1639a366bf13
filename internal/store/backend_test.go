package store

import (
	"context"
	"errors"
	"sync"

	"publisher-planner/internal/model"
)

type createCall struct {
	PublisherID string
	Req         model.CreateScenarioRequest
	CopyFrom    string
}

// fakeBackend is an in-memory server. Scenario journals are recomputed from
// the saved configs on every read, the way the real backend does.
type fakeBackend struct {
	mu sync.Mutex

	publishers map[string]*model.PublisherResponse
	saved      map[string]model.SavedScenario
	apc        *model.ApcResponse
	apcErr     error
	journalErr map[string]error

	// gates, when set, block the matching call until closed
	publisherGate chan struct{}
	journalsGate  chan struct{}

	calls   map[string]int
	posts   map[string][]model.SavedScenario
	created []createCall
	deleted []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		publishers: map[string]*model.PublisherResponse{},
		saved:      map[string]model.SavedScenario{},
		journalErr: map[string]error{},
		calls:      map[string]int{},
		posts:      map[string][]model.SavedScenario{},
	}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Publisher(ctx context.Context, id string) (*model.PublisherResponse, error) {
	f.mu.Lock()
	f.calls["publisher"]++
	gate := f.publisherGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.publishers[id]
	if !ok {
		return nil, errors.New("publisher not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeBackend) PublisherApc(ctx context.Context, id string) (*model.ApcResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["apc"]++
	if f.apcErr != nil {
		return nil, f.apcErr
	}
	return f.apc, nil
}

func (f *fakeBackend) ScenarioJournals(ctx context.Context, id string) (*model.ScenarioResponse, error) {
	f.mu.Lock()
	f.calls["journals"]++
	gate := f.journalsGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.journalErr[id]; err != nil {
		return nil, err
	}
	saved, ok := f.saved[id]
	if !ok {
		return nil, errors.New("scenario not found")
	}
	return &model.ScenarioResponse{
		Journals: computeJournals(saved),
		Saved:    saved.Clone(),
		Meta:     model.ScenarioMeta{ScenarioID: id},
	}, nil
}

// computeJournals splits the big-deal cost evenly over three journals.
func computeJournals(saved model.SavedScenario) []model.Journal {
	share := saved.ConfigFloat(model.ConfigCostBigdeal) / 3
	return []model.Journal{
		{IssnL: "1111-1111", Title: "One", CostSubscription: share},
		{IssnL: "2222-2222", Title: "Two", CostSubscription: share},
		{IssnL: "3333-3333", Title: "Three", CostSubscription: share},
	}
}

func (f *fakeBackend) SaveScenario(ctx context.Context, id string, saved model.SavedScenario) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["save"]++
	f.posts[id] = append(f.posts[id], saved)
	f.saved[id] = saved.Clone()
	return nil
}

func (f *fakeBackend) CreateScenario(ctx context.Context, publisherID string, req model.CreateScenarioRequest, copyFrom string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	f.created = append(f.created, createCall{PublisherID: publisherID, Req: req, CopyFrom: copyFrom})
	saved := model.SavedScenario{Name: req.Name, Configs: map[string]any{}, Subrs: []string{}}
	if src, ok := f.saved[copyFrom]; ok && copyFrom != "" {
		saved = src.Clone()
		saved.Name = req.Name
	}
	f.saved[req.ID] = saved
	return nil
}

func (f *fakeBackend) DeleteScenario(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	f.deleted = append(f.deleted, id)
	delete(f.saved, id)
	return nil
}
