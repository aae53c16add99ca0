// Copyright 2016 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package checker verifies the structural integrity and cryptographic
// authenticity of an already-parsed update payload (see the update
// package): block accounting, extent validity, per-operation
// constraints, blob hashing, contiguous data-section use, and the
// metadata/payload signature layers.
package checker

import "fmt"

// PayloadType is the detected shape of a payload: full payloads only
// replace blocks from scratch, delta payloads also move and bsdiff
// against a known old image.
type PayloadType int

const (
	PayloadTypeUnspecified PayloadType = iota
	PayloadTypeFull
	PayloadTypeDelta
)

func (t PayloadType) String() string {
	switch t {
	case PayloadTypeFull:
		return "full"
	case PayloadTypeDelta:
		return "delta"
	default:
		return "unspecified"
	}
}

// Names of the individually disable-able checks, matching disabled_tests
// in the Python checker.
const (
	CheckDstPseudoExtents    = "dst-pseudo-extents"
	CheckMoveSameSrcDstBlock = "move-same-src-dst-block"
	CheckPayloadSig          = "payload-sig"
)

// DefaultBlockSize is the block size assumed when Config.BlockSize is
// left at zero.
const DefaultBlockSize = 4096

// PseudoExtentMarker is the sentinel start_block value denoting an
// extent that addresses no physical partition block.
const PseudoExtentMarker = ^uint64(0)

// Config mirrors the options the Python PayloadChecker.__init__ accepts.
type Config struct {
	// BlockSize, if zero, defaults to DefaultBlockSize.
	BlockSize uint64

	// AssertType, if not PayloadTypeUnspecified, requires the
	// detected payload type to match.
	AssertType PayloadType

	// AllowUnhashed permits data-bearing operations without a
	// data_sha256_hash.
	AllowUnhashed bool

	// RootfsPartSize and KernelPartSize bound the usable size of
	// each partition; zero means "use the manifest's reported new
	// size".
	RootfsPartSize uint64
	KernelPartSize uint64

	// DisabledTests suppresses exactly the named checks (see the
	// Check* constants above).
	DisabledTests map[string]bool
}

func (c Config) blockSize() uint64 {
	if c.BlockSize == 0 {
		return DefaultBlockSize
	}
	return c.BlockSize
}

func (c Config) disabled(name string) bool {
	return c.DisabledTests != nil && c.DisabledTests[name]
}

// PayloadError is the single error type the checker ever returns. Path
// identifies the failing object by a dotted/indexed path in the style
// of install_operations[3].dst_extents[1]; it is empty for errors not
// tied to a specific field.
type PayloadError struct {
	Path string
	Msg  string
}

func (e *PayloadError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func errf(path, format string, args ...interface{}) *PayloadError {
	return &PayloadError{Path: path, Msg: fmt.Sprintf(format, args...)}
}
