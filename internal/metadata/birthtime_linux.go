//go:build linux

package metadata

import (
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of path. Filesystems without btime
// support fall back to the modification time.
func BirthTime(path string) (time.Time, error) {
	var st unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &st)
	if err == nil && st.Mask&unix.STATX_BTIME != 0 && st.Btime.Sec != 0 {
		return time.Unix(st.Btime.Sec, int64(st.Btime.Nsec)), nil
	}
	return statModTime(path)
}
