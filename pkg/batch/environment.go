package batch

import "sort"

// MapEnvironment converts an environment mapping into the Batch list-of-pairs
// wire format. Entries are emitted in sorted key order so compiled
// definitions are deterministic; values are passed through verbatim. An
// empty mapping maps to an empty list.
func MapEnvironment(environment map[string]string) []KeyValuePair {
	if len(environment) == 0 {
		return nil
	}

	keys := make([]string, 0, len(environment))
	for k := range environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]KeyValuePair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, KeyValuePair{Name: k, Value: environment[k]})
	}
	return pairs
}
