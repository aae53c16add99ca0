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

package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coreos/update-payload-checker/update/metadata"
)

// OpHistogram counts install operations by type.
type OpHistogram struct {
	counts map[metadata.InstallOperation_Type]int
}

func newOpHistogram() *OpHistogram {
	return &OpHistogram{counts: map[metadata.InstallOperation_Type]int{}}
}

func (h *OpHistogram) Add(t metadata.InstallOperation_Type) {
	h.counts[t]++
}

// String renders the histogram as "MOVE: 1, REPLACE: 3", sorted by
// type name for deterministic output.
func (h *OpHistogram) String() string {
	return formatCounts(h.counts, func(t metadata.InstallOperation_Type) string { return t.String() })
}

func formatCounts[K comparable](counts map[K]int, name func(K) string) string {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return name(keys[i]) < name(keys[j]) })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", name(k), counts[k]))
	}
	return strings.Join(parts, ", ")
}
