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
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/abbreviator/cmd/abbreviator/opts"
	"github.com/walteh/abbreviator/pkg/document"
	"github.com/walteh/abbreviator/pkg/log"
	"github.com/walteh/abbreviator/pkg/operation"
	"github.com/walteh/abbreviator/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var fileOpts operation.FileOptions

	cmd := &cobra.Command{
		Use:   "replace <glob>...",
		Short: "Replace phrases with their abbreviations",
		Long: `Replace scans every matching document in chunks of words and substitutes
each known phrase with its abbreviation. Only whole words are replaced;
case is ignored. Documents are processed one at a time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), o, cmd.OutOrStdout(), args, scan.ModeReplace, fileOpts)
		},
	}

	cmd.Flags().BoolVar(&fileOpts.DryRun, "dry-run", false, "compute replacements without writing files")
	cmd.Flags().BoolVar(&fileOpts.Diff, "diff", false, "print a diff of every changed document")
	cmd.Flags().BoolVar(&fileOpts.Backup, "backup", false, "keep a .bak copy while writing")

	return cmd
}

// NewHighlightCmd creates the highlight command
func NewHighlightCmd(o *opts.RootOpts) *cobra.Command {
	var useColor bool

	cmd := &cobra.Command{
		Use:   "highlight <glob>...",
		Short: "Mark phrases that have an abbreviation",
		Long: `Highlight prints every matching document with abbreviable phrases marked
as [[phrase]], or in the configured color with --color. Files are never
modified.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileOpts := operation.FileOptions{Marker: document.BracketMarker}
			if useColor {
				fileOpts.Marker = document.ANSIMarker
			}
			return runScan(cmd.Context(), o, cmd.OutOrStdout(), args, scan.ModeHighlight, fileOpts)
		},
	}

	cmd.Flags().BoolVar(&useColor, "color", false, "render highlights with terminal colors")

	return cmd
}

func runScan(ctx context.Context, o *opts.RootOpts, out io.Writer, patterns []string, mode scan.Mode, fileOpts operation.FileOptions) error {
	logger := log.FromContext(ctx)

	paths, err := ExpandGlobs(patterns)
	if err != nil {
		return err
	}

	phrases, err := o.Operator.Phrases(ctx)
	if err != nil {
		return errors.Errorf("listing phrases: %w", err)
	}

	logger.StartScanOperation(ctx, log.ScanOperation{
		Mode:     mode.String(),
		Source:   o.Config.Scan.PhraseSource,
		Phrases:  len(phrases),
		Patterns: patterns,
	})

	failed := 0
	ops := make([]operation.Operation, 0, len(paths))
	for _, path := range paths {
		ops = append(ops, operation.OperationFunc(func(ctx context.Context) error {
			var (
				res *operation.FileResult
				err error
			)
			if mode == scan.ModeHighlight {
				res, err = o.Operator.HighlightAll(ctx, path, fileOpts)
			} else {
				res, err = o.Operator.ReplaceAll(ctx, path, fileOpts)
			}

			docOp := documentOperation(path, mode, fileOpts, res, err)
			logger.LogDocumentOperation(ctx, docOp)

			if err != nil {
				failed++
				return nil
			}
			printResult(out, mode, fileOpts, res)
			if res.Scan != nil && res.Scan.Cancelled {
				return errors.Errorf("scan of %s cancelled after %d of %d chunks: %w",
					path, res.Scan.Completed, res.Scan.TotalChunks, context.Canceled)
			}
			return nil
		}))
	}

	runErr := o.Runner.RunAll(ctx, ops...)
	done := logger.EndScanOperation(ctx)

	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		return errors.Errorf("%d of %d documents failed", failed, len(done))
	}
	return nil
}

// documentOperation summarizes one result for the console
func documentOperation(path string, mode scan.Mode, fileOpts operation.FileOptions, res *operation.FileResult, err error) log.DocumentOperation {
	op := log.DocumentOperation{
		Path:     path,
		Mode:     mode.String(),
		IsDryRun: fileOpts.DryRun && mode == scan.ModeReplace,
	}
	if err != nil {
		op.IsFailed = true
		op.Status = "failed"
		return op
	}

	if res.Scan != nil {
		op.Matches = res.Scan.Matches
	}
	switch {
	case !res.Changed:
		op.Status = "no matches"
	case mode == scan.ModeHighlight:
		op.IsMarked = true
		op.Status = fmt.Sprintf("%d marked", op.Matches)
	default:
		op.IsChanged = true
		op.Status = fmt.Sprintf("%d replaced", op.Matches)
	}
	return op
}

func printResult(out io.Writer, mode scan.Mode, fileOpts operation.FileOptions, res *operation.FileResult) {
	switch {
	case mode == scan.ModeHighlight:
		fmt.Fprintln(out, res.Output)
	case fileOpts.Diff && res.Diff.Changed():
		fmt.Fprintf(out, "--- %s (+%d -%d)\n%s\n", res.Path, res.Diff.Inserted, res.Diff.Deleted, res.Diff.Pretty)
	}
}
