package analyzer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Report is the structured assessment produced for one interview.
type Report struct {
	Summary           string   `json:"summary"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	PotentialRedFlags []string `json:"potential_red_flags"`
	SuitabilityScore  *int     `json:"suitability_score,omitempty"`
	Recommendations   []string `json:"recommendations"`
}

// extractJSONObject locates the first '{' and the last '}' in raw and
// returns the inclusive substring. This contract is fragile against nested
// braces in surrounding prose, which is why it lives in one place.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return "", newFormatError("no JSON object found in output", raw)
	}

	return raw[start : end+1], nil
}

// parseReport extracts and validates a Report from raw generation output.
func parseReport(raw string) (*Report, error) {
	jsonStr, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return nil, newFormatError("invalid JSON: "+err.Error(), raw)
	}

	report := &Report{}

	if err := decodeString(fields, "summary", &report.Summary); err != nil {
		return nil, newFormatError(err.Error(), raw)
	}

	for _, f := range []struct {
		key  string
		dest *[]string
	}{
		{"strengths", &report.Strengths},
		{"weaknesses", &report.Weaknesses},
		{"potential_red_flags", &report.PotentialRedFlags},
		{"recommendations", &report.Recommendations},
	} {
		if err := decodeStringList(fields, f.key, f.dest); err != nil {
			return nil, newFormatError(err.Error(), raw)
		}
	}

	score, err := decodeScore(fields["suitability_score"])
	if err != nil {
		return nil, newFormatError(err.Error(), raw)
	}
	report.SuitabilityScore = score

	return report, nil
}

func decodeString(fields map[string]json.RawMessage, key string, dest *string) error {
	msg, ok := fields[key]
	if !ok {
		return &missingFieldError{key}
	}
	if err := json.Unmarshal(msg, dest); err != nil {
		return &badFieldError{key, "expected a string"}
	}
	return nil
}

func decodeStringList(fields map[string]json.RawMessage, key string, dest *[]string) error {
	msg, ok := fields[key]
	if !ok {
		return &missingFieldError{key}
	}
	if err := json.Unmarshal(msg, dest); err != nil {
		return &badFieldError{key, "expected a list of strings"}
	}
	return nil
}

// decodeScore tolerates the model returning the score as a number or as a
// quoted number. Absent or null scores are allowed.
func decodeScore(msg json.RawMessage) (*int, error) {
	if msg == nil || string(msg) == "null" {
		return nil, nil
	}

	var num float64
	if err := json.Unmarshal(msg, &num); err == nil {
		score := int(num)
		return &score, nil
	}

	var str string
	if err := json.Unmarshal(msg, &str); err == nil {
		score, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return nil, &badFieldError{"suitability_score", "expected an integer"}
		}
		return &score, nil
	}

	return nil, &badFieldError{"suitability_score", "expected an integer"}
}

type missingFieldError struct {
	key string
}

func (e *missingFieldError) Error() string {
	return "missing field " + e.key
}

type badFieldError struct {
	key    string
	reason string
}

func (e *badFieldError) Error() string {
	return "field " + e.key + ": " + e.reason
}
