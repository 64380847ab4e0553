package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	apperrors "go-produce-analyzer/internal/errors"
)

// The provider is a non-deterministic black box: replies are expected
// to be JSON but arrive wrapped in markdown fences, prefixed with
// prose, or with fields missing or out of range. Normalization is
// layered: strict decode, then balanced-brace extraction, then
// defensive field coercion. A reply that fails both decode attempts
// yields a malformed-response error carrying the raw text.

// stripCodeFences removes a markdown code fence around the reply
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject locates the first balanced {...} span in text by
// scanning from the first '{' and tracking nesting depth. String
// literals and escapes are honored so braces inside values do not
// terminate the scan. A regex cannot do this for nested objects.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeObject turns a raw provider reply into a loose JSON object.
// Strict decode first; on failure, retry on the first balanced object
// span only.
func decodeObject(raw string) (map[string]interface{}, error) {
	cleaned := stripCodeFences(raw)

	var obj map[string]interface{}
	strictErr := json.Unmarshal([]byte(cleaned), &obj)
	if strictErr == nil {
		return obj, nil
	}

	if span, ok := extractJSONObject(cleaned); ok {
		if err := json.Unmarshal([]byte(span), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, apperrors.NewMalformedResponseError("provider reply is not a JSON object", raw, strictErr)
}

// NormalizeClassification converts a raw provider reply into a
// ClassificationResult
func NormalizeClassification(raw string) (ClassificationResult, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return degradedClassification(), err
	}
	return ClassificationResult{
		FruitType:  strings.TrimSpace(coerceString(obj["fruit_type"])),
		Variety:    coerceOptionalString(obj["variety"]),
		Confidence: coerceConfidence(obj["confidence"]),
		Notes:      coerceString(obj["notes"]),
	}, nil
}

// NormalizeRipeness converts a raw provider reply into a RipenessResult
func NormalizeRipeness(raw string) (RipenessResult, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return degradedRipeness(), err
	}
	return RipenessResult{
		Stage:            coerceStage(obj["ripeness_stage"]),
		Confidence:       coerceConfidence(obj["confidence"]),
		ColorDescription: coerceString(obj["color_description"]),
		Recommendation:   coerceString(obj["recommendation"]),
		DaysToOptimal:    coerceOptionalInt(obj["days_to_optimal"]),
	}, nil
}

// NormalizeDisease converts a raw provider reply into a DiseaseResult
func NormalizeDisease(raw string) (DiseaseResult, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return degradedDisease(), err
	}
	return DiseaseResult{
		IsDiseased:         coerceBool(obj["is_diseased"]),
		DiseasesDetected:   coerceStringSlice(obj["diseases_detected"]),
		Confidence:         coerceConfidence(obj["confidence"]),
		Severity:           coerceSeverity(obj["severity"]),
		Treatment:          coerceString(obj["treatment"]),
		PreventiveMeasures: coerceString(obj["preventive_measures"]),
	}, nil
}

// Field coercion: missing fields get documented defaults, out-of-range
// confidence is clamped, unrecognized enum strings map to the
// unknown/null case.

func coerceString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func coerceOptionalString(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

func coerceBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// coerceConfidence clamps into [0,100]; non-numeric or missing values
// default to 0 rather than propagating provider noise
func coerceConfidence(v interface{}) int {
	f, ok := coerceNumber(v)
	if !ok {
		return 0
	}
	n := int(f + 0.5)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func coerceNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		// Providers occasionally quote numbers or append a percent sign
		s := strings.TrimSuffix(strings.TrimSpace(n), "%")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func coerceOptionalInt(v interface{}) *int {
	f, ok := coerceNumber(v)
	if !ok {
		return nil
	}
	n := int(f + 0.5)
	return &n
}

func coerceStringSlice(v interface{}) []string {
	out := []string{}
	arr, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceStage(v interface{}) Stage {
	switch Stage(strings.ToLower(strings.TrimSpace(coerceString(v)))) {
	case StageUnderripe:
		return StageUnderripe
	case StageRipe:
		return StageRipe
	case StageOverripe:
		return StageOverripe
	case StageSpoiled:
		return StageSpoiled
	}
	return StageUnknown
}

func coerceSeverity(v interface{}) *Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(coerceString(v)))); sev {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return &sev
	}
	return nil
}
