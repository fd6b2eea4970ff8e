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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagType(t *testing.T) {
	assert.Equal(t, TagTypeUint, TagOSVersion.Type())
	assert.Equal(t, TagTypeUint, TagOSPatchlevel.Type())
	assert.Equal(t, TagTypeBytes, TagApplicationID.Type())
	assert.Equal(t, TagTypeEnumRep, TagPurpose.Type())
}

func TestAuthorizationSetGetUint(t *testing.T) {
	set := AuthorizationSet{}.
		AddUint(TagOSVersion, 140000).
		AddUint(TagOSPatchlevel, 202508)

	v, ok := set.GetUint(TagOSVersion)
	assert.True(t, ok)
	assert.Equal(t, uint32(140000), v)

	v, ok = set.GetUint(TagOSPatchlevel)
	assert.True(t, ok)
	assert.Equal(t, uint32(202508), v)

	_, ok = set.GetUint(TagKeySize)
	assert.False(t, ok)
}

func TestAuthorizationSetGetBytes(t *testing.T) {
	appID := []byte("com.example.app")
	set := AuthorizationSet{}.AddBytes(TagApplicationID, appID)

	b, ok := set.GetBytes(TagApplicationID)
	assert.True(t, ok)
	assert.Equal(t, appID, b)

	_, ok = set.GetBytes(TagNonce)
	assert.False(t, ok)
}

func TestAuthorizationSetFirstMatchWins(t *testing.T) {
	set := AuthorizationSet{}.
		AddUint(TagKeySize, 256).
		AddUint(TagKeySize, 2048)

	v, ok := set.GetUint(TagKeySize)
	assert.True(t, ok)
	assert.Equal(t, uint32(256), v)
}

func TestAuthorizationSetContains(t *testing.T) {
	set := AuthorizationSet{}.AddUint(TagOSVersion, 1)
	assert.True(t, set.Contains(TagOSVersion))
	assert.False(t, set.Contains(TagOSPatchlevel))
}
