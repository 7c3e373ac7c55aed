package sourcecontrol

import "strings"

// StatusEntry is one line of porcelain status output.
type StatusEntry struct {
	Code string
	Path string
}

// WorkingTreeStatus is the parsed porcelain status of a working tree.
type WorkingTreeStatus []StatusEntry

// ParsePorcelain parses `git status --porcelain` (v1) output.
// Renames keep the whole "old -> new" text as the path.
func ParsePorcelain(out string) WorkingTreeStatus {
	var status WorkingTreeStatus
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := StatusEntry{Path: strings.TrimSpace(line)}
		if len(line) > 3 {
			entry.Code = line[:2]
			entry.Path = strings.TrimSpace(line[3:])
		}
		status = append(status, entry)
	}
	return status
}

// CommittedExcept reports whether every entry mentions segment. An empty
// status counts as committed.
func (s WorkingTreeStatus) CommittedExcept(segment string) bool {
	for _, e := range s {
		if !strings.Contains(e.Path, segment) {
			return false
		}
	}
	return true
}
