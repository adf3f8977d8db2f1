//go:build unix && !linux

package process

func isDefunct(PID) bool {
	return false
}
