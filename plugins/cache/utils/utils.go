// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"strings"
)

// RemoveDuplicates returns a new slice with every element appearing once,
// first occurrence order preserved.
func RemoveDuplicates(el []string) []string {
	found := map[string]bool{}
	var result []string
	for _, v := range el {
		if !found[v] {
			found[v] = true
			result = append(result, v)
		}
	}
	return result
}

// Intersect returns the intersection of the given string slices. With fewer
// than two slices the (deduplicated) input is returned as-is.
func Intersect(slices ...[]string) []string {
	if len(slices) == 0 {
		return nil
	}
	result := RemoveDuplicates(slices[0])
	for _, s := range slices[1:] {
		inNext := map[string]bool{}
		for _, v := range s {
			inNext[v] = true
		}
		var kept []string
		for _, v := range result {
			if inNext[v] {
				kept = append(kept, v)
			}
		}
		result = kept
	}
	return result
}

// Difference returns the elements of a not present in b.
func Difference(a []string, b []string) []string {
	inB := map[string]bool{}
	for _, v := range b {
		inB[v] = true
	}
	var result []string
	for _, v := range a {
		if !inB[v] {
			result = append(result, v)
		}
	}
	return result
}

// SplitID splits a "namespace/name" identifier. An identifier without a
// slash is all name, no namespace.
func SplitID(id string) (namespace string, name string) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return parts[0], parts[1]
}
