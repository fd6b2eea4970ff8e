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

// Package fsconfig holds the static user and group identifier table for
// the platform, consumed read-only by the layers that configure which
// principal may open the secure channel. The numeric values are ABI:
// do not ever renumber.
package fsconfig

// AID is a platform user or group identifier.
type AID uint32

const (
	AIDRoot AID = 0 // traditional unix root user

	AIDSystem AID = 1000 // system server

	AIDRadio     AID = 1001 // telephony subsystem
	AIDBluetooth AID = 1002 // bluetooth subsystem
	AIDGraphics  AID = 1003 // graphics devices
	AIDInput     AID = 1004 // input devices
	AIDAudio     AID = 1005 // audio devices
	AIDCamera    AID = 1006 // camera devices
	AIDLog       AID = 1007 // log devices
	AIDMount     AID = 1009 // mount daemon socket
	AIDWifi      AID = 1010 // wifi subsystem
	AIDAdb       AID = 1011 // debug bridge daemon
	AIDInstall   AID = 1012 // package install group
	AIDMedia     AID = 1013 // media server process
	AIDDHCP      AID = 1014 // dhcp client
	AIDVPN       AID = 1016 // vpn system
	AIDKeystore  AID = 1017 // keystore subsystem
	AIDUSB       AID = 1018 // USB devices
	AIDDRM       AID = 1019 // DRM server
	AIDGPS       AID = 1021 // GPS daemon
	AIDNFC       AID = 1027 // nfc subsystem
	AIDLogd      AID = 1036 // log daemon
	AIDShell     AID = 2000 // adb and debug shell user
	AIDCache     AID = 2001 // cache access
	AIDDiag      AID = 2002 // access to diagnostic resources

	AIDNobody AID = 9999

	// AIDApp is the first application identifier.
	AIDApp AID = 10000

	// AIDUser is the offset applied per user profile.
	AIDUser AID = 100000
)

var aidNames = map[string]AID{
	"root":      AIDRoot,
	"system":    AIDSystem,
	"radio":     AIDRadio,
	"bluetooth": AIDBluetooth,
	"graphics":  AIDGraphics,
	"input":     AIDInput,
	"audio":     AIDAudio,
	"camera":    AIDCamera,
	"log":       AIDLog,
	"mount":     AIDMount,
	"wifi":      AIDWifi,
	"adb":       AIDAdb,
	"install":   AIDInstall,
	"media":     AIDMedia,
	"dhcp":      AIDDHCP,
	"vpn":       AIDVPN,
	"keystore":  AIDKeystore,
	"usb":       AIDUSB,
	"drm":       AIDDRM,
	"gps":       AIDGPS,
	"nfc":       AIDNFC,
	"logd":      AIDLogd,
	"shell":     AIDShell,
	"cache":     AIDCache,
	"diag":      AIDDiag,
	"nobody":    AIDNobody,
}

// LookupName resolves a symbolic principal name to its identifier.
func LookupName(name string) (AID, bool) {
	aid, ok := aidNames[name]
	return aid, ok
}

// LookupAID resolves an identifier back to its symbolic name.
func LookupAID(aid AID) (string, bool) {
	for name, id := range aidNames {
		if id == aid {
			return name, true
		}
	}
	return "", false
}
