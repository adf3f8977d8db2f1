package process

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
)

// isDefunct reports whether pid is a zombie or dead task according to
// /proc/<pid>/stat. The null signal still succeeds for those until the parent
// reaps them.
func isDefunct(pid PID) bool {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(int(pid)), "stat"))
	if err != nil {
		return false
	}
	// The command name is parenthesized and may itself contain ')'.
	i := bytes.LastIndexByte(data, ')')
	if i < 0 || i+2 >= len(data) {
		return false
	}
	switch data[i+2] {
	case 'Z', 'X', 'x':
		return true
	}
	return false
}
