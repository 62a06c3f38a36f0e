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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/abbreviator/cmd/abbreviator/opts"
	"github.com/walteh/abbreviator/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewLookupCmd creates the lookup command
func NewLookupCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <phrase>...",
		Short: "Print the abbreviation for each phrase",
		Long: `Lookup resolves each phrase the way a replace scan would: the
autocorrect mirror first, then the dictionary. Unknown phrases are printed
unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.FromContext(cmd.Context())
			for _, phrase := range args {
				abbr := o.Operator.Lookup(phrase)
				if abbr == phrase {
					logger.Warningf("%s: no abbreviation", phrase)
					continue
				}
				logger.Infof("%s → %s", phrase, abbr)
			}
			return nil
		},
	}
}

// NewExpandCmd creates the expand command
func NewExpandCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <selection>",
		Short: "Abbreviate a selected phrase",
		Long: `Expand behaves like selecting text in an editor: a selection longer
than three characters whose trimmed text is a dictionary phrase is replaced
by its abbreviation. Anything else, or any selection while replacement is
disabled, is printed as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			abbr, ok, err := o.Operator.ExpandSelection(cmd.Context(), args[0])
			if err != nil {
				return errors.Errorf("expanding: %w", err)
			}
			if ok {
				out = abbr
			}
			_, err = cmd.OutOrStdout().Write([]byte(out + "\n"))
			return err
		},
	}
}
