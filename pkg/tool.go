package pkg

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// Unique drop empty and duplicated values, keep first-seen order
func Unique(slice []string) []string {
	out := make([]string, 0, len(slice))
	for _, v := range slice {
		if v == "" || Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
