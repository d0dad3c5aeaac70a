package evidence

// DedupeLinks merges link lists in order, dropping exact-string
// duplicates while preserving first-seen order.
func DedupeLinks(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, link := range list {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			out = append(out, link)
		}
	}
	return out
}
