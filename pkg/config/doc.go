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
Package config loads abbreviator settings from YAML, HCL or JSON files.

	+-----------+     +-------------+     +-----------+
	|  Config   | --> |   Parser    | --> |  Config   |
	|   File    |     |  Registry   |     |  (valid)  |
	+-----------+     +-------------+     +-----------+
	                         |
	        +----------------+----------------+
	        |                |                |
	  +-----------+    +-----------+    +-----------+
	  |   YAML    |    |    HCL    |    |   JSON    |
	  |  Parser   |    |  Parser   |    |  Parser   |
	  +-----------+    +-----------+    +-----------+

🎯 Purpose:
- Chooses the dictionary source and its cache location
- Locates the autocorrect table
- Tunes the batch scan (chunk size, highlight color, phrase source)

🔄 Flow:
1. Reads the file through an afero.Fs
2. Picks a parser by file extension
3. Decodes strictly; unknown keys are errors
4. Validates and fills defaults

📝 Example (YAML):

	dictionary:
	  source: ~/abbr.xlsx
	scan:
	  chunk_size: 500
	  highlight_color: green

📝 Example (HCL):

	scan {
	  highlight_color = color.red
	}

A missing file is not an error for LoadOrDefault; every field has a usable
default.
*/
package config
