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
	"github.com/walteh/abbreviator/pkg/autocorrect"
	"github.com/walteh/abbreviator/pkg/dictionary"
)

// 🔗 ChainResolver resolves through the autocorrect mirror first and falls
// back to the dictionary. Either may be nil.
func ChainResolver(mirror *autocorrect.Mirror, store *dictionary.Store) ResolveFunc {
	return func(phrase string) string {
		if mirror != nil {
			if v, ok := mirror.TryGet(phrase); ok {
				return v
			}
		}
		if store != nil {
			return store.Lookup(phrase)
		}
		return phrase
	}
}
