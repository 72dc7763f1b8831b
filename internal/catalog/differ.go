package catalog

// NewWorkSet returns the upstream ids that are not yet stored locally,
// preserving export order and capped at limit. A limit of zero or less
// means no cap.
func NewWorkSet(upstream []int64, local map[int64]struct{}, limit int) []int64 {
	var missing []int64
	for _, id := range upstream {
		if _, ok := local[id]; ok {
			continue
		}
		missing = append(missing, id)
		if limit > 0 && len(missing) >= limit {
			break
		}
	}
	return missing
}
