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

import "fmt"

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// bytesToHumanReadable renders a byte count the way the report wants
// it shown alongside the raw number, e.g. "1536 (1.50 KiB)".
func bytesToHumanReadable(n uint64) string {
	f := float64(n)
	unit := byteUnits[0]
	for _, u := range byteUnits[1:] {
		if f < 1024 {
			break
		}
		f /= 1024
		unit = u
	}
	if unit == byteUnits[0] {
		return fmt.Sprintf("%d (%d %s)", n, n, unit)
	}
	return fmt.Sprintf("%d (%.2f %s)", n, f, unit)
}
