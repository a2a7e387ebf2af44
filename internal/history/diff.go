package history

import (
	"fmt"
	"strings"

	"github.com/maxbolgarin/retrospec/internal/model"
)

// AssembleDiff builds a unified-diff-formatted text from per-file patch
// fragments, in the order the host returned them. Files without a fragment
// (binary files and the like) contribute no diff text but still appear in
// the returned file list. This is textual concatenation, not a re-parse:
// line numbering does not continue across files.
func AssembleDiff(files []model.FileChange) (string, []model.FileChange) {
	parts := make([]string, 0, len(files))
	list := make([]model.FileChange, 0, len(files))

	for _, f := range files {
		list = append(list, f)
		if f.Patch == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n%s",
			f.Filename, f.Filename, f.Filename, f.Filename, f.Patch))
	}

	return strings.Join(parts, "\n"), list
}
