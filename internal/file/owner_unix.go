//go:build unix

package file

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// lookupOwner resolves the owning user name from stat data. Returns the
// numeric uid when the user database has no entry, "" when the platform
// stat type is unavailable.
func lookupOwner(info os.FileInfo) string {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return ""
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username
	}
	return uid
}
