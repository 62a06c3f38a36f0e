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

/*
Package operation ties the dictionary, the autocorrect table and the scan
engine together into the commands the CLI exposes.

	+--------------+     +---------------+     +--------------+
	|  dictionary  | --> |   operation   | <-- | autocorrect  |
	|    Store     |     |   Operator    |     | Table/Mirror |
	+--------------+     +---------------+     +--------------+
	                            |
	                 +----------+----------+
	                 |                     |
	          +-------------+       +-------------+
	          | scan.Engine |       |   status    |
	          |  (chunks)   |       |  (files)    |
	          +-------------+       +-------------+

🎯 Purpose:
- Enable, Disable and Resume the autocorrect feature
- Run replace and highlight scans over plain-text documents
- Answer status, lookup and selection expansion queries

🔄 Flow of a document run:
1. status.Manager reads the file
2. A document.Session takes ownership of the text
3. scan.Engine walks the words in chunks, reporting progress
4. The new content is written atomically unless this is a dry run

Highlights never touch the file; they are returned rendered.

🔍 Example:

	op, err := operation.New(operation.Options{
		Config: cfg,
		Store:  store,
		Table:  table,
		Files:  status.New(afero.NewOsFs(), logger),
	})
	res, err := op.ReplaceAll(ctx, "notes.txt", operation.FileOptions{DryRun: true, Diff: true})
*/
package operation
