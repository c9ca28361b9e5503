package rpc

import (
	"log/slog"
	"os"
	"os/user"
	"strconv"
)

// chownToGroup changes path's group ownership to groupName, logging
// and otherwise doing nothing when the group does not resolve on this
// host. Socket group ownership is an operational nicety, not a
// startup precondition - spec.md §7's configuration-error refusal is
// reserved for genuinely invalid configuration, not for a missing
// optional system group.
func chownToGroup(path, groupName string, logger *slog.Logger) {
	grp, err := user.LookupGroup(groupName)
	if err != nil {
		logger.Debug("rpc: socket group not found, leaving default group", slog.String("group", groupName))
		return
	}
	gid, err := strconv.Atoi(grp.Gid)
	if err != nil {
		return
	}
	if err := os.Chown(path, -1, gid); err != nil {
		logger.Warn("rpc: chown socket failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
