// SPDX-FileCopyrightText: 2026 The Viseron authors
//
// SPDX-License-Identifier: MIT

package handoff

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// credentials is the identity the process assumes before the exec.
type credentials struct {
	uid    int
	gid    int
	groups []int
}

// lookupCredentials resolves the named account including its
// supplementary groups. If the group database cannot be listed, only the
// primary group is used.
func lookupCredentials(name string) (*credentials, error) {
	account, err := user.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	uid, err := strconv.Atoi(account.Uid)
	if err != nil {
		return nil, fmt.Errorf("parse uid %q: %w", account.Uid, err)
	}

	gid, err := strconv.Atoi(account.Gid)
	if err != nil {
		return nil, fmt.Errorf("parse gid %q: %w", account.Gid, err)
	}

	groups := []int{gid}

	groupIDs, err := account.GroupIds()
	if err == nil {
		for _, id := range groupIDs {
			gidNum, err := strconv.Atoi(id)
			if err != nil || gidNum == gid {
				continue
			}

			groups = append(groups, gidNum)
		}
	}

	return &credentials{uid: uid, gid: gid, groups: groups}, nil
}

// current returns true if the process already runs with this identity.
func (c *credentials) current() bool {
	return os.Getuid() == c.uid && os.Getgid() == c.gid
}

// apply drops privileges. The order matters: supplementary groups first
// and gid before uid, since none of them can be raised again afterwards.
func (c *credentials) apply() error {
	if c.current() {
		return nil
	}

	if err := unix.Setgroups(c.groups); err != nil {
		return fmt.Errorf("setgroups: %w", err)
	}

	if err := unix.Setgid(c.gid); err != nil {
		return fmt.Errorf("setgid %d: %w", c.gid, err)
	}

	if err := unix.Setuid(c.uid); err != nil {
		return fmt.Errorf("setuid %d: %w", c.uid, err)
	}

	return nil
}
