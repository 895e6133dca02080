package session

import (
	"time"

	"edadash/domain/chat"
	"edadash/domain/core"
	"edadash/domain/table"
)

// Visualization is one of the dashboard sections a user can switch on
type Visualization string

const (
	VisualInfo             Visualization = "Info"
	VisualNAInfo           Visualization = "NA Info"
	VisualDescriptive      Visualization = "Descriptive Analysis"
	VisualTarget           Visualization = "Target Analysis"
	VisualDistribution     Visualization = "Distribution of Numerical Columns"
	VisualCountPlots       Visualization = "Count Plots of Categorical Columns"
	VisualBoxPlots         Visualization = "Box Plots"
	VisualOutliers         Visualization = "Outlier Analysis"
	VisualTargetByCategory Visualization = "Variance of Target with Categorical Columns"
)

// AllVisualizations lists the sections in the order they are rendered
var AllVisualizations = []Visualization{
	VisualInfo,
	VisualNAInfo,
	VisualDescriptive,
	VisualTarget,
	VisualDistribution,
	VisualCountPlots,
	VisualBoxPlots,
	VisualOutliers,
	VisualTargetByCategory,
}

// ParseVisualization validates a section name sent by the browser
func ParseVisualization(s string) (Visualization, bool) {
	for _, v := range AllVisualizations {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ProblemType selects how the target is compared across categories
type ProblemType string

const (
	Regression     ProblemType = "Regression"
	Classification ProblemType = "Classification"
)

// Options are the per-section selections. Nil column lists mean "all
// eligible columns".
type Options struct {
	DistributionColumns []string
	CountColumns        []string
	BoxColumns          []string
	CategoryColumns     []string
	Target              string // empty selects the last column
	ProblemType         ProblemType
	PlotHighCardinality bool
	Kinds               map[string]table.Kind // user-declared column kinds
}

// Dataset is a loaded table and where it came from
type Dataset struct {
	Name        string
	Table       *table.Table
	Example     bool
	Fingerprint core.Hash // sha256 of the uploaded bytes
}

// Session is everything one browser session owns. Handlers never mutate a
// stored Session; they clone, modify the clone and store it back.
type Session struct {
	ID         core.SessionID
	Format     string
	Uploaded   *Dataset
	Example    *Dataset
	UseExample bool
	Visuals    []Visualization
	Options    Options
	APIKey     string
	Messages   []chat.Message
	Notice     string // one-shot inline message, cleared on the next action
	UpdatedAt  time.Time
}

// New starts a session with the assistant greeting in its chat log
func New(id core.SessionID) *Session {
	return &Session{
		ID:       id,
		Format:   "csv",
		Options:  Options{ProblemType: Regression},
		Messages: []chat.Message{chat.Greeting},
	}
}

// Active returns the dataset the dashboard renders: the example when toggled,
// the last upload otherwise, or nil.
func (s *Session) Active() *Dataset {
	if s.UseExample && s.Example != nil {
		return s.Example
	}
	return s.Uploaded
}

// HasVisual reports whether a section is switched on
func (s *Session) HasVisual(v Visualization) bool {
	for _, sel := range s.Visuals {
		if sel == v {
			return true
		}
	}
	return false
}

// Clone returns a copy that can be modified without touching s. Tables are
// immutable and shared.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Visuals = append([]Visualization(nil), s.Visuals...)
	cp.Messages = append([]chat.Message(nil), s.Messages...)
	cp.Options.DistributionColumns = cloneStrings(s.Options.DistributionColumns)
	cp.Options.CountColumns = cloneStrings(s.Options.CountColumns)
	cp.Options.BoxColumns = cloneStrings(s.Options.BoxColumns)
	cp.Options.CategoryColumns = cloneStrings(s.Options.CategoryColumns)
	if s.Options.Kinds != nil {
		cp.Options.Kinds = make(map[string]table.Kind, len(s.Options.Kinds))
		for k, v := range s.Options.Kinds {
			cp.Options.Kinds[k] = v
		}
	}
	return &cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
