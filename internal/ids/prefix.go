package ids

import "strings"

// MatchPrefix finds the single ID with the given case-insensitive prefix.
// It returns the matched ID, whether any ID matched, and whether the prefix
// was ambiguous.
func MatchPrefix(ids []string, prefix string) (match string, found, ambiguous bool) {
	if prefix == "" {
		return "", false, false
	}
	prefixLower := strings.ToLower(prefix)

	for _, id := range ids {
		if !strings.HasPrefix(strings.ToLower(id), prefixLower) {
			continue
		}
		if found {
			return "", true, true
		}
		match = id
		found = true
	}

	return match, found, false
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID,
// keyed by the lowercased ID.
func UniquePrefixLengths(ids []string) map[string]int {
	uniqueIDs := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		uniqueIDs = append(uniqueIDs, idLower)
	}

	lengths := make(map[string]int, len(uniqueIDs))
	for _, id := range uniqueIDs {
		lengths[id] = uniquePrefixLength(id, uniqueIDs)
	}

	return lengths
}

func uniquePrefixLength(id string, ids []string) int {
	for length := 1; length <= len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range ids {
			if other == id {
				continue
			}
			if strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return length
		}
	}

	return len(id)
}
