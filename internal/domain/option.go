package domain

// ExtractedOption is a single candidate reply ranked by Score (higher wins).
// Scores are usually within 0..1 but no bound is enforced.
type ExtractedOption struct {
	Option string  `json:"option"`
	Score  float64 `json:"score"`
}

// ResultSet is the ordered option list sent to a client. Once produced by the
// extractor it is never empty and is sorted by descending score.
type ResultSet []ExtractedOption
