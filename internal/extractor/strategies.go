package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"pitchwise/internal/domain"
)

// maxSectionRunes bounds the text of options synthesized from prose sections.
const maxSectionRunes = 100

// sectionScores are assigned by position to synthesized options.
var sectionScores = []float64{0.5, 0.4, 0.3}

// Line patterns, tried in order; the first match on a line wins.
var linePatterns = []*regexp.Regexp{
	// 1. "Option text" analysis_score: 0.91
	regexp.MustCompile(`(?i)(?:\d+\.\s*)?"(.*)"\s*analysis_score:\s*([\d.]+)`),
	// "Option text" (score: 0.91)
	regexp.MustCompile(`(?i)"([^"]+)"\s*\(?(?:score|analysis_score|confidence):\s*([\d.]+)\)?`),
	// 1. Option text - score: 0.91
	regexp.MustCompile(`(?i)(?:\d+\.\s*)?(.*?)(?:[-–]\s*|\s+)(?:score|analysis_score|confidence):\s*([\d.]+)`),
}

// Whole-text patterns. Numbered shapes capture the list number as well, so
// matches carry either three or four groups.
var globalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\.\s+"([^"]+)"\s*analysis_score:\s*([\d.]+)`),
	regexp.MustCompile(`(?i)"([^"]+)"\s*\(?(?:score|analysis_score|confidence):\s*([\d.]+)\)?`),
	regexp.MustCompile(`(?i)(\d+)\.\s*(.*?)(?:[-–]\s*|\s+)(?:score|analysis_score|confidence):\s*([\d.]+)`),
}

var sectionSplit = regexp.MustCompile(`\n\s*\n|\n\d+\.`)

// fromEmbeddedJSON decodes the span between the first '[' and the last ']'
// as a JSON array of option objects.
func fromEmbeddedJSON(raw string) domain.ResultSet {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return nil
	}

	out := make(domain.ResultSet, 0, len(items))
	for _, item := range items {
		// A null element spoils the whole array.
		if string(item) == "null" {
			return nil
		}
		var fields map[string]interface{}
		// Non-object elements still count, with empty text and the default score.
		_ = json.Unmarshal(item, &fields)
		out = append(out, domain.ExtractedOption{
			Option: firstText(fields, "text", "option", "message"),
			Score:  firstScore(fields, "score", "confidence"),
		})
	}
	return out
}

func firstText(fields map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstScore(fields map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			return parseScore(n)
		default:
			return 0
		}
	}
	return DefaultScore
}

// fromLines applies linePatterns to each line independently.
func fromLines(raw string) domain.ResultSet {
	var out domain.ResultSet
	for _, line := range strings.Split(raw, "\n") {
		for _, re := range linePatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			out = append(out, domain.ExtractedOption{
				Option: strings.TrimSpace(m[1]),
				Score:  parseScore(m[2]),
			})
			break
		}
	}
	return out
}

// fromGlobalMatches searches the whole text with each of globalPatterns and
// stops at the first pattern that yields a record.
func fromGlobalMatches(raw string) domain.ResultSet {
	for _, re := range globalPatterns {
		var out domain.ResultSet
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			var text, score string
			if len(m) == 4 {
				text, score = m[2], m[3]
			} else {
				text, score = m[1], m[2]
			}
			text = strings.TrimSpace(text)
			if text == "" || score == "" {
				continue
			}
			out = append(out, domain.ExtractedOption{Option: text, Score: parseScore(score)})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// fromSections synthesizes options from the first few prose sections, split
// on blank lines or numbered list markers.
func fromSections(raw string) domain.ResultSet {
	var out domain.ResultSet
	for _, section := range sectionSplit.Split(raw, -1) {
		text := strings.TrimSpace(section)
		if text == "" {
			continue
		}
		out = append(out, domain.ExtractedOption{
			Option: truncateRunes(text, maxSectionRunes),
			Score:  sectionScores[len(out)],
		})
		if len(out) == len(sectionScores) {
			break
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
