package model

import (
	"strings"

	json "github.com/goccy/go-json"
)

// DataFile is one uploaded source file of a publisher package.
type DataFile struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Uploaded bool   `json:"uploaded"`

	Extra Extra `json:"-"`
}

var dataFileKeys = []string{"name", "uploaded", "id"}

type dataFileAlias DataFile

func (f *DataFile) UnmarshalJSON(data []byte) error {
	var a dataFileAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtra(data, dataFileKeys...)
	if err != nil {
		return err
	}
	a.Extra = extra
	*f = DataFile(a)
	return nil
}

func (f DataFile) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(dataFileAlias(f))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, f.Extra)
}

// NormalizedName folds the server's plural "prices" file name to "price".
func (f DataFile) NormalizedName() string {
	return strings.Replace(f.Name, "prices", "price", 1)
}

// JournalDetail is the aggregate count block of a publisher summary.
type JournalDetail struct {
	Counts     JournalDetailCounts `json:"counts"`
	DiffCounts DiffCounts          `json:"diff_counts"`
}

type JournalDetailCounts struct {
	InScenario int `json:"in_scenario"`
}

type DiffCounts struct {
	NoPrice            int `json:"diff_no_price"`
	OpenAccessJournals int `json:"diff_open_access_journals"`
	NotPublishedIn2019 int `json:"diff_not_published_in_2019"`
	ChangedPublisher   int `json:"diff_changed_publisher"`
}

// JournalCounts is the summary shown on a package page.
type JournalCounts struct {
	Analyzed      int `json:"analyzed"`
	MissingPrices int `json:"missingPrices"`
	OA            int `json:"oa"`
	LeftOrStopped int `json:"leftOrStopped"`
}

func (d JournalDetail) JournalCounts() JournalCounts {
	return JournalCounts{
		Analyzed:      d.Counts.InScenario,
		MissingPrices: d.DiffCounts.NoPrice,
		OA:            d.DiffCounts.OpenAccessJournals,
		LeftOrStopped: d.DiffCounts.NotPublishedIn2019 + d.DiffCounts.ChangedPublisher,
	}
}

// ScenarioStub is a scenario reference embedded in a publisher summary.
type ScenarioStub struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublisherResponse is the body of GET publisher/{id}.
type PublisherResponse struct {
	ID                  string             `json:"id"`
	Publisher           string             `json:"publisher"`
	Name                string             `json:"name"`
	IsDemo              bool               `json:"is_demo"`
	Scenarios           []ScenarioStub     `json:"scenarios"`
	JournalDetail       JournalDetail      `json:"journal_detail"`
	Journals            []PublisherJournal `json:"journals"`
	DataFiles           []DataFile         `json:"data_files"`
	CostBigdeal         float64            `json:"cost_bigdeal"`
	IsOwnedByConsortium bool               `json:"is_owned_by_consortium"`
}

// ApcHeader is one aggregate column of the APC report.
type ApcHeader struct {
	Value string   `json:"value"`
	Text  string   `json:"text,omitempty"`
	Raw   *float64 `json:"raw"`
}

// APC header keys read by the client.
const (
	ApcHeaderPapers               = "num_apc_papers"
	ApcHeaderFractionalAuthorship = "fractional_authorship"
	ApcHeaderCost                 = "cost_apc"
)

// ApcResponse is the body of GET publisher/{id}/apc.
type ApcResponse struct {
	Headers  []ApcHeader      `json:"headers"`
	Journals []map[string]any `json:"journals"`
}

// Header returns the raw value of the header with the given key.
func (r ApcResponse) Header(value string) *float64 {
	for _, h := range r.Headers {
		if h.Value == value {
			return h.Raw
		}
	}
	return nil
}

// Apc is the APC part of publisher state. Nil aggregates mean "not loaded".
type Apc struct {
	IsLoading              bool             `json:"apcIsLoading"`
	Headers                []ApcHeader      `json:"apcHeaders"`
	Journals               []map[string]any `json:"apcJournals"`
	PapersCount            *float64         `json:"apcPapersCount"`
	AuthorsFractionalCount *float64         `json:"apcAuthorsFractionalCount"`
	Cost                   *float64         `json:"apcCost"`
}

// Publisher is the loaded publisher package with its scenarios.
type Publisher struct {
	ID                  string             `json:"id"`
	Publisher           string             `json:"publisher"`
	Name                string             `json:"name"`
	IsDemo              bool               `json:"isDemo"`
	Scenarios           []*Scenario        `json:"scenarios"`
	JournalDetail       JournalDetail      `json:"journalDetail"`
	JournalCounts       JournalCounts      `json:"journalCounts"`
	Journals            []PublisherJournal `json:"journals"`
	DataFiles           []DataFile         `json:"dataFiles"`
	CounterIsUploaded   bool               `json:"counterIsUploaded"`
	BigDealCost         float64            `json:"bigDealCost"`
	IsOwnedByConsortium bool               `json:"isOwnedByConsortium"`
}

func (f DataFile) Clone() DataFile {
	out := f
	out.Extra = f.Extra.clone()
	return out
}

func (a Apc) Clone() Apc {
	out := a
	out.Headers = append([]ApcHeader(nil), a.Headers...)
	if a.Journals != nil {
		out.Journals = make([]map[string]any, len(a.Journals))
		for i, j := range a.Journals {
			out.Journals[i] = cloneValue(j).(map[string]any)
		}
	}
	return out
}

// Clone returns a deep copy that shares nothing with p.
func (p *Publisher) Clone() *Publisher {
	if p == nil {
		return nil
	}
	out := *p
	out.Scenarios = make([]*Scenario, len(p.Scenarios))
	for i, s := range p.Scenarios {
		out.Scenarios[i] = s.Clone()
	}
	out.Journals = make([]PublisherJournal, len(p.Journals))
	for i, j := range p.Journals {
		out.Journals[i] = j.Clone()
	}
	out.DataFiles = make([]DataFile, len(p.DataFiles))
	for i, f := range p.DataFiles {
		out.DataFiles[i] = f.Clone()
	}
	return &out
}
