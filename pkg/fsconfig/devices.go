// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package fsconfig

// DeviceEntry describes the ownership and mode applied to one device
// node at boot.
type DeviceEntry struct {
	Path string
	Mode uint32
	UID  AID
	GID  AID
}

// deviceOwners grants the keystore principal access to the secure
// channel. Entries are matched by exact path.
var deviceOwners = []DeviceEntry{
	{Path: "/dev/trusty-ipc-dev0", Mode: 0o660, UID: AIDSystem, GID: AIDKeystore},
	{Path: "/dev/trusty-log0", Mode: 0o640, UID: AIDRoot, GID: AIDLog},
}

// OwnerFor returns the ownership entry for a device node path.
func OwnerFor(path string) (DeviceEntry, bool) {
	for _, e := range deviceOwners {
		if e.Path == path {
			return e, true
		}
	}
	return DeviceEntry{}, false
}
