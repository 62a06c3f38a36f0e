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

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestPartition(t *testing.T) {
	convey.Convey("partition 2500 words into chunks of 1000", t, func() {
		windows := Partition(2500, 1000)
		convey.So(windows, convey.ShouldHaveLength, 3)
		convey.So(windows[0], convey.ShouldResemble, Window{Index: 0, Start: 1, End: 1000})
		convey.So(windows[1], convey.ShouldResemble, Window{Index: 1, Start: 1001, End: 2000})
		convey.So(windows[2], convey.ShouldResemble, Window{Index: 2, Start: 2001, End: 2500})
	})

	convey.Convey("windows cover every word exactly once", t, func() {
		cases := [][2]int{{1, 1}, {1, 1000}, {999, 1000}, {1000, 1000}, {1001, 1000}, {7, 3}, {10, 1}, {12345, 17}}
		for _, c := range cases {
			words, size := c[0], c[1]
			windows := Partition(words, size)

			convey.So(len(windows), convey.ShouldEqual, (words+size-1)/size)

			next := 1
			for i, w := range windows {
				convey.So(w.Index, convey.ShouldEqual, i)
				convey.So(w.Start, convey.ShouldEqual, next)
				convey.So(w.End, convey.ShouldBeGreaterThanOrEqualTo, w.Start)
				convey.So(w.Range().Len(), convey.ShouldBeLessThanOrEqualTo, size)
				next = w.End + 1
			}
			convey.So(next, convey.ShouldEqual, words+1)
		}
	})

	convey.Convey("edge sizes", t, func() {
		convey.So(Partition(0, 1000), convey.ShouldBeEmpty)
		convey.So(Partition(-4, 1000), convey.ShouldBeEmpty)
		convey.So(Partition(1500, 0), convey.ShouldHaveLength, 2)
		convey.So(Partition(1500, -1)[0].End, convey.ShouldEqual, DefaultChunkSize)
	})
}
