package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const recommendationsKey = "recommendations"

var requiredStringFields = []string{"Title", "Provider", "Reason"}

// Validate checks that raw is an object with exactly the key "recommendations"
// holding an array of objects, each with string Title, Provider and Reason.
// Other fields are kept as generated; numeric ranges are not checked.
func Validate(raw json.RawMessage) (RecommendationSet, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return RecommendationSet{}, &SchemaError{Reason: "top-level value is not an object", Value: raw}
	}
	if len(top) != 1 {
		return RecommendationSet{}, &SchemaError{Reason: fmt.Sprintf("expected exactly one key %q, got %d keys", recommendationsKey, len(top)), Value: raw}
	}
	items, ok := top[recommendationsKey]
	if !ok {
		return RecommendationSet{}, &SchemaError{Reason: fmt.Sprintf("missing key %q", recommendationsKey), Value: raw}
	}

	var elems []json.RawMessage
	if !isJSONArray(items) || json.Unmarshal(items, &elems) != nil {
		return RecommendationSet{}, &SchemaError{Reason: fmt.Sprintf("%q is not an array", recommendationsKey), Value: raw}
	}

	set := RecommendationSet{Recommendations: make([]Recommendation, 0, len(elems))}
	for i, elem := range elems {
		rec, err := decodeRecommendation(elem)
		if err != nil {
			return RecommendationSet{}, &SchemaError{Reason: fmt.Sprintf("recommendations[%d]: %v", i, err), Value: raw}
		}
		set.Recommendations = append(set.Recommendations, rec)
	}
	return set, nil
}

func decodeRecommendation(elem json.RawMessage) (Recommendation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return Recommendation{}, fmt.Errorf("element is not an object")
	}

	strs := make(map[string]string, len(requiredStringFields))
	for _, name := range requiredStringFields {
		value, ok := fields[name]
		if !ok {
			return Recommendation{}, fmt.Errorf("missing %s", name)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil || !isJSONString(value) {
			return Recommendation{}, fmt.Errorf("%s is not a string", name)
		}
		strs[name] = s
	}

	rec := Recommendation{Reason: strs["Reason"], raw: append(json.RawMessage(nil), bytes.TrimSpace(elem)...)}
	// Best effort: a mistyped optional field leaves its typed value zero but
	// is still emitted as generated.
	_ = json.Unmarshal(elem, &rec.ServiceRecord)
	rec.Title = strs["Title"]
	rec.Provider = strs["Provider"]
	return rec, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
