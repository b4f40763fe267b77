//go:build darwin

package metadata

import (
	"os"
	"syscall"
	"time"
)

// BirthTime returns the creation time of path.
func BirthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st.Birthtimespec.Sec != 0 {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), nil
	}
	return info.ModTime(), nil
}
