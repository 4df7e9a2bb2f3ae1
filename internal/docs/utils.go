package docs

import "strings"

// containsPathTraversal checks if a path contains parent-directory
// traversal sequences
func containsPathTraversal(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
