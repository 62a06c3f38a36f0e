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

// NewEnableCmd creates the enable command
func NewEnableCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Seed the autocorrect table and turn replacement on",
		Long: `Enable copies every dictionary entry into the autocorrect table.
It will:
1. Upsert each phrase with its abbreviation
2. Turn the replace-as-you-type setting on
3. Build the in-memory mirror of the table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := o.Operator.Enable(ctx, nil); err != nil {
				return errors.Errorf("enabling: %w", err)
			}
			log.FromContext(ctx).Success("abbreviations enabled")
			return nil
		},
	}
}

// NewDisableCmd creates the disable command
func NewDisableCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Turn replacement off",
		Long:  `Disable turns the replace-as-you-type setting off. Table entries are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := o.Operator.Disable(ctx, nil); err != nil {
				return errors.Errorf("disabling: %w", err)
			}
			log.FromContext(ctx).Success("abbreviations disabled")
			return nil
		},
	}
}

// NewReloadCmd creates the reload command
func NewReloadCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reread the dictionary from its source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := o.Operator.Reload(ctx); err != nil {
				return errors.Errorf("reloading: %w", err)
			}
			report, err := o.Operator.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}
			log.FromContext(ctx).Successf("dictionary reloaded: %d phrases", report.DictionaryEntries)
			return nil
		},
	}
}
