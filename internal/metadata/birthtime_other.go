//go:build !linux && !darwin

package metadata

import "time"

// BirthTime returns the modification time of path; this platform exposes no
// portable creation time.
func BirthTime(path string) (time.Time, error) {
	return statModTime(path)
}
