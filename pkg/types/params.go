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

// TagType encodes the value representation of a tag in its top nibble.
type TagType uint32

const (
	TagTypeInvalid  TagType = 0 << 28
	TagTypeEnum     TagType = 1 << 28
	TagTypeEnumRep  TagType = 2 << 28
	TagTypeUint     TagType = 3 << 28
	TagTypeUintRep  TagType = 4 << 28
	TagTypeUlong    TagType = 5 << 28
	TagTypeDate     TagType = 6 << 28
	TagTypeBool     TagType = 7 << 28
	TagTypeBignum   TagType = 8 << 28
	TagTypeBytes    TagType = 9 << 28
	TagTypeUlongRep TagType = 10 << 28
)

// Tag identifies one authorization parameter. The tag number lives in the
// low 28 bits and the representation type in the top nibble. Values are
// wire-stable and additive-only.
type Tag uint32

const (
	TagPurpose       Tag = Tag(TagTypeEnumRep) | 1
	TagAlgorithm     Tag = Tag(TagTypeEnum) | 2
	TagKeySize       Tag = Tag(TagTypeUint) | 3
	TagBlockMode     Tag = Tag(TagTypeEnumRep) | 4
	TagDigest        Tag = Tag(TagTypeEnumRep) | 5
	TagPadding       Tag = Tag(TagTypeEnumRep) | 6
	TagNonce         Tag = Tag(TagTypeBytes) | 1001
	TagApplicationID Tag = Tag(TagTypeBytes) | 601
	TagOSVersion     Tag = Tag(TagTypeUint) | 705
	TagOSPatchlevel  Tag = Tag(TagTypeUint) | 706
	TagAttestationID Tag = Tag(TagTypeBytes) | 709
)

// Type returns the representation type of the tag.
func (t Tag) Type() TagType {
	return TagType(t) & (0xf << 28)
}

// KeyParam is one tagged authorization value. Enum, uint, date and bool
// content is carried in Uint; bytes and bignum content in Bytes.
type KeyParam struct {
	Tag   Tag
	Uint  uint64
	Bytes []byte
}

// AuthorizationSet is an ordered collection of tagged key parameters
// exchanged with the trusted application. The proxy treats its content as
// semi-opaque: it reads individual tags only for local validation, never
// for cryptographic policy.
type AuthorizationSet []KeyParam

// GetUint returns the value of the first parameter carrying the given
// uint-typed tag.
func (s AuthorizationSet) GetUint(tag Tag) (uint32, bool) {
	for _, p := range s {
		if p.Tag == tag {
			return uint32(p.Uint), true
		}
	}
	return 0, false
}

// GetUlong returns the value of the first parameter carrying the given
// ulong-typed tag.
func (s AuthorizationSet) GetUlong(tag Tag) (uint64, bool) {
	for _, p := range s {
		if p.Tag == tag {
			return p.Uint, true
		}
	}
	return 0, false
}

// GetBytes returns the content of the first parameter carrying the given
// bytes-typed tag.
func (s AuthorizationSet) GetBytes(tag Tag) ([]byte, bool) {
	for _, p := range s {
		if p.Tag == tag {
			return p.Bytes, true
		}
	}
	return nil, false
}

// Contains reports whether any parameter carries the given tag.
func (s AuthorizationSet) Contains(tag Tag) bool {
	for _, p := range s {
		if p.Tag == tag {
			return true
		}
	}
	return false
}

// AddUint appends a uint-valued parameter and returns the extended set.
func (s AuthorizationSet) AddUint(tag Tag, value uint32) AuthorizationSet {
	return append(s, KeyParam{Tag: tag, Uint: uint64(value)})
}

// AddUlong appends a ulong-valued parameter and returns the extended set.
func (s AuthorizationSet) AddUlong(tag Tag, value uint64) AuthorizationSet {
	return append(s, KeyParam{Tag: tag, Uint: value})
}

// AddBytes appends a bytes-valued parameter and returns the extended set.
func (s AuthorizationSet) AddBytes(tag Tag, value []byte) AuthorizationSet {
	return append(s, KeyParam{Tag: tag, Bytes: value})
}
