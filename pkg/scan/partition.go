// Copyright 2025 walteh LLC
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

package scan

import "github.com/walteh/abbreviator/pkg/document"

// DefaultChunkSize is the number of words processed per chunk.
const DefaultChunkSize = 1000

// 🪟 Window is one chunk of the word sequence. Start and End are 1-based and
// inclusive; Index is 0-based.
type Window struct {
	Index int
	Start int
	End   int
}

// Range converts the window into a document range
func (w Window) Range() document.Range {
	return document.Range{Start: w.Start, End: w.End}
}

// ✂️ Partition splits words 1..wordCount into contiguous windows of at most
// chunkSize words. A non-positive chunkSize selects DefaultChunkSize.
func Partition(wordCount, chunkSize int) []Window {
	if wordCount <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	windows := make([]Window, 0, (wordCount+chunkSize-1)/chunkSize)
	for start := 1; start <= wordCount; start += chunkSize {
		end := start + chunkSize - 1
		if end > wordCount {
			end = wordCount
		}
		windows = append(windows, Window{Index: len(windows), Start: start, End: end})
	}
	return windows
}
