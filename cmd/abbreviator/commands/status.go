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

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether abbreviations are enabled",
		Long: `Status reports the local state without changing it:
1. The replace-as-you-type setting
2. Autocorrect table and mirror sizes
3. Dictionary size and readiness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			report, err := o.Operator.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			if report.Enabled {
				logger.Success("abbreviations are enabled")
			} else {
				logger.Warning("abbreviations are disabled")
			}
			logger.Infof("autocorrect table: %d entries", report.TableEntries)
			logger.Infof("mirror: %d entries (initialized: %t)", report.MirrorEntries, report.MirrorInitialized)
			if report.DictionaryReady != nil {
				logger.Errorf("dictionary: %v", report.DictionaryReady)
			} else {
				logger.Infof("dictionary: %d phrases from %s", report.DictionaryEntries, dictionaryName(o))
			}
			return nil
		},
	}

	return cmd
}

func dictionaryName(o *opts.RootOpts) string {
	if o.Config == nil || o.Config.Dictionary.Source == "" {
		return "built-in table"
	}
	return o.Config.Dictionary.Source
}
