// Package extractor turns free-form LLM output into a ranked, never-empty list
// of options.
//
// Model output rarely follows the requested format, so extraction is a cascade
// of strategies ordered from most to least structured. Each strategy is a pure
// function that returns no records instead of failing; the first strategy that
// produces records wins. When every strategy comes back empty a single
// sentinel option is returned.
package extractor

import (
	"sort"

	"pitchwise/internal/domain"
)

// SentinelOption is returned when nothing could be extracted.
const SentinelOption = "No valid options could be extracted from the response"

// DefaultScore is used for the sentinel and for JSON records without a score.
const DefaultScore = 0.5

// Strategy names reported by ExtractWithStrategy.
const (
	StrategyJSON     = "json"
	StrategyLine     = "line"
	StrategyGlobal   = "global"
	StrategySections = "sections"
	StrategySentinel = "sentinel"
)

type strategy struct {
	name string
	run  func(raw string) domain.ResultSet
}

var cascade = []strategy{
	{name: StrategyJSON, run: fromEmbeddedJSON},
	{name: StrategyLine, run: fromLines},
	{name: StrategyGlobal, run: fromGlobalMatches},
	{name: StrategySections, run: fromSections},
}

// Extractor implements port.OptionExtractor.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract implements port.OptionExtractor.
func (e *Extractor) Extract(raw string) (domain.ResultSet, string) {
	return ExtractWithStrategy(raw)
}

// Extract returns the ranked options found in raw. It never returns an empty
// set.
func Extract(raw string) domain.ResultSet {
	out, _ := ExtractWithStrategy(raw)
	return out
}

// ExtractWithStrategy is Extract but also reports which strategy produced the
// result.
func ExtractWithStrategy(raw string) (domain.ResultSet, string) {
	for _, s := range cascade {
		out := s.apply(raw)
		if len(out) == 0 {
			continue
		}
		sortByScore(out)
		return out, s.name
	}
	return domain.ResultSet{{Option: SentinelOption, Score: DefaultScore}}, StrategySentinel
}

// apply runs the strategy, treating a panic as "no records".
func (s strategy) apply(raw string) (out domain.ResultSet) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return s.run(raw)
}

// sortByScore orders options by descending score; equal scores keep their
// extraction order.
func sortByScore(options domain.ResultSet) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})
}
