package export

// ValidateNoLeakage fails when target appears in features. The slice is not modified.
func ValidateNoLeakage(features []string, target string) error {
	for _, col := range features {
		if col == target {
			return &LeakageError{Column: target}
		}
	}
	return nil
}
