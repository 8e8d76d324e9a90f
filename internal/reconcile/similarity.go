/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reconcile

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// StringSimilarity compares two descriptions case-insensitively and returns a score in [0, 1],
// where 1 means identical. Either side empty (but not both) scores 0.
func StringSimilarity(str1, str2 string) float64 {
	str1 = strings.ToLower(str1)
	str2 = strings.ToLower(str2)

	if str1 == str2 {
		return 1
	}
	if str1 == "" || str2 == "" {
		return 0
	}

	r1, r2 := []rune(str1), []rune(str2)
	// unit cost for insert, delete and substitute
	distance := levenshtein.DistanceForStrings(r1, r2, levenshtein.DefaultOptionsWithSub)

	return 1 - float64(distance)/float64(max(len(r1), len(r2)))
}
