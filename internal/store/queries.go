package store

import (
	"net/url"
	"strings"

	"publisher-planner/internal/model"
)

// Everything returned here is a copy; mutating it does not affect the store.

// Publisher returns a snapshot of the loaded publisher, or nil.
func (s *Store) Publisher() *model.Publisher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.publisher.Clone()
}

func (s *Store) PublisherID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return ""
	}
	return s.state.publisher.ID
}

// PublisherName is the package display name, falling back to the publisher
// slug for packages that were never named.
func (s *Store) PublisherName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pub := s.state.publisher
	if pub == nil {
		return ""
	}
	if strings.TrimSpace(pub.Name) != "" {
		return pub.Name
	}
	return pub.Publisher
}

func (s *Store) PublisherSlug() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return ""
	}
	return s.state.publisher.Publisher
}

// PublisherLogo resolves the logo template for the loaded publisher.
func (s *Store) PublisherLogo() string {
	slug := s.PublisherSlug()
	if slug == "" || s.opts.LogoURL == "" {
		return ""
	}
	return strings.ReplaceAll(s.opts.LogoURL, "{publisher}", url.PathEscape(strings.ToLower(slug)))
}

func (s *Store) IsDemo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.publisher != nil && s.state.publisher.IsDemo
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.isLoading
}

func (s *Store) BigDealCost() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return 0
	}
	return s.state.publisher.BigDealCost
}

func (s *Store) IsOwnedByConsortium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.publisher != nil && s.state.publisher.IsOwnedByConsortium
}

func (s *Store) CounterIsUploaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.publisher != nil && s.state.publisher.CounterIsUploaded
}

func (s *Store) JournalCounts() model.JournalCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return model.JournalCounts{}
	}
	return s.state.publisher.JournalCounts
}

func (s *Store) Journals() []model.PublisherJournal {
	return s.journals(func(model.PublisherJournal) bool { return true })
}

// ValidJournals returns the journals that can take part in a scenario.
func (s *Store) ValidJournals() []model.PublisherJournal {
	return s.journals(model.PublisherJournal.IsValid)
}

func (s *Store) journals(keep func(model.PublisherJournal) bool) []model.PublisherJournal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.PublisherJournal{}
	if s.state.publisher == nil {
		return out
	}
	for _, j := range s.state.publisher.Journals {
		if keep(j) {
			out = append(out, j.Clone())
		}
	}
	return out
}

func (s *Store) Scenario(id string) (*model.Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc := s.findLocked(id)
	if sc == nil {
		return nil, false
	}
	return sc.Clone(), true
}

func (s *Store) Scenarios() []*model.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*model.Scenario{}
	if s.state.publisher == nil {
		return out
	}
	for _, sc := range s.state.publisher.Scenarios {
		out = append(out, sc.Clone())
	}
	return out
}

func (s *Store) ScenariosCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return 0
	}
	return len(s.state.publisher.Scenarios)
}

// ScenariosAreAllLoaded reports whether no scenario is waiting for hydration.
func (s *Store) ScenariosAreAllLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.publisher == nil {
		return true
	}
	for _, sc := range s.state.publisher.Scenarios {
		if sc.IsLoading {
			return false
		}
	}
	return true
}

// Files returns the publisher's data files, each carrying a camelCase id
// derived from its name.
func (s *Store) Files() []model.DataFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.DataFile{}
	if s.state.publisher == nil {
		return out
	}
	for _, f := range s.state.publisher.DataFiles {
		out = append(out, f.Clone())
	}
	return out
}

// FilesDict indexes Files by id.
func (s *Store) FilesDict() map[string]model.DataFile {
	files := s.Files()
	out := make(map[string]model.DataFile, len(files))
	for _, f := range files {
		out[f.ID] = f
	}
	return out
}

func (s *Store) Apc() model.Apc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.apc.Clone()
}
