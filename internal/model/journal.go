package model

import (
	json "github.com/goccy/go-json"
)

// Journal is one per-journal usage and cost record of a scenario.
type Journal struct {
	IssnL            string   `json:"issn_l"`
	Title            string   `json:"title"`
	Subject          string   `json:"subject,omitempty"`
	CPU              *float64 `json:"cpu"`
	CostSubscription float64  `json:"cost_subscription"`
	CostIll          float64  `json:"cost_ill"`
	Usage            float64  `json:"usage"`

	CPUIndex   int  `json:"cpuIndex"`
	Subscribed bool `json:"subscribed"`

	Extra Extra `json:"-"`
}

var journalKeys = []string{
	"issn_l", "title", "subject", "cpu", "cost_subscription", "cost_ill", "usage",
	"cpuIndex", "subscribed",
}

type journalAlias Journal

func (j *Journal) UnmarshalJSON(data []byte) error {
	var a journalAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtra(data, journalKeys...)
	if err != nil {
		return err
	}
	a.Extra = extra
	*j = Journal(a)
	return nil
}

func (j Journal) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(journalAlias(j))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, j.Extra)
}

func (j Journal) Clone() Journal {
	out := j
	if j.CPU != nil {
		cpu := *j.CPU
		out.CPU = &cpu
	}
	out.Extra = j.Extra.clone()
	return out
}

// PublisherJournal is a journal of the publisher's package, independent of
// any scenario.
type PublisherJournal struct {
	IssnL      string   `json:"issn_l"`
	Title      string   `json:"title"`
	Subject    string   `json:"subject,omitempty"`
	DataIssues []string `json:"data_issues,omitempty"`

	Extra Extra `json:"-"`
}

var publisherJournalKeys = []string{"issn_l", "title", "subject", "data_issues", "isValid"}

type publisherJournalAlias PublisherJournal

// IsValid reports whether the journal can take part in a scenario.
func (j PublisherJournal) IsValid() bool {
	return j.IssnL != "" && len(j.DataIssues) == 0
}

func (j *PublisherJournal) UnmarshalJSON(data []byte) error {
	var a publisherJournalAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtra(data, publisherJournalKeys...)
	if err != nil {
		return err
	}
	a.Extra = extra
	*j = PublisherJournal(a)
	return nil
}

func (j PublisherJournal) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(struct {
		publisherJournalAlias
		IsValid bool `json:"isValid"`
	}{publisherJournalAlias(j), j.IsValid()})
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, j.Extra)
}

func (j PublisherJournal) Clone() PublisherJournal {
	out := j
	out.DataIssues = append([]string(nil), j.DataIssues...)
	out.Extra = j.Extra.clone()
	return out
}
