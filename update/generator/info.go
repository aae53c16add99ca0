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

package generator

import (
	"crypto/sha256"
	"io"
	"os"

	"github.com/coreos/update-payload-checker/update/metadata"
)

// NewPartitionInfo hashes the full contents of r (rewinding it
// afterwards) and returns the PartitionInfo a manifest would carry for
// it.
func NewPartitionInfo(r io.ReadSeeker) (*metadata.PartitionInfo, error) {
	sha := sha256.New()
	size, err := io.Copy(sha, r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, os.SEEK_SET); err != nil {
		return nil, err
	}

	sz := uint64(size)
	return &metadata.PartitionInfo{
		Hash: sha.Sum(nil),
		Size: &sz,
	}, nil
}
