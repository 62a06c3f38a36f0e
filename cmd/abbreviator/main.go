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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/abbreviator/cmd/abbreviator/commands"
	"github.com/walteh/abbreviator/cmd/abbreviator/opts"
	"github.com/walteh/abbreviator/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, o := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if o.Close != nil {
		if cerr := o.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		if o.UserLogger == nil {
			o.UserLogger = log.New(os.Stdout, zerolog.InfoLevel)
		}
		o.UserLogger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree; dependencies are created after flag
// parsing
func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "abbreviator",
		Short: "Shorten long phrases in documents using an abbreviation dictionary",
		Long: `abbreviator replaces or highlights phrases that have a known abbreviation
("as soon as possible" becomes "ASAP"). Documents are scanned in chunks of
words so large files report progress as they go.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			ctx := setupLogging(cmd.Context())
			if err := newRootOpts(ctx, o); err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(ctx, o.UserLogger))
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewEnableCmd(o),
		commands.NewDisableCmd(o),
		commands.NewStatusCmd(o),
		commands.NewLookupCmd(o),
		commands.NewExpandCmd(o),
		commands.NewReplaceCmd(o),
		commands.NewHighlightCmd(o),
		commands.NewReloadCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}
