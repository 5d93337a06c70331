package port

import "pitchwise/internal/domain"

// OptionExtractor converts raw generator output into a ranked ResultSet and
// names the strategy that produced it. It never fails.
type OptionExtractor interface {
	Extract(raw string) (domain.ResultSet, string)
}
