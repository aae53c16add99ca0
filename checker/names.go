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

// Dotted/indexed path helpers, used to build the Path field of
// PayloadError and the names shown in reports. Indices are always
// zero-based, matching the order fields appear in the manifest.

func opsListName(isKernel bool) string {
	if isKernel {
		return "kernel_install_operations"
	}
	return "install_operations"
}

func opName(isKernel bool, idx int) string {
	return fmt.Sprintf("%s[%d]", opsListName(isKernel), idx)
}

func extentName(opPath, field string, idx int) string {
	if field == "" {
		return fmt.Sprintf("%s[%d]", opPath, idx)
	}
	return fmt.Sprintf("%s.%s[%d]", opPath, field, idx)
}

func subName(parent, field string) string {
	return fmt.Sprintf("%s.%s", parent, field)
}
