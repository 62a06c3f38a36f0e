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

package operation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/abbreviator/pkg/config"
	"github.com/walteh/abbreviator/pkg/document"
	"github.com/walteh/abbreviator/pkg/scan"
	"github.com/walteh/abbreviator/pkg/status"
	"github.com/walteh/abbreviator/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 FileOptions tunes a single document run
type FileOptions struct {
	DryRun bool // Compute the result without writing the file
	Diff   bool // Fill FileResult.Diff
	Backup bool // Keep a .bak copy while writing

	// Marker renders highlights; document.BracketMarker when nil
	Marker func(s string, c document.Color) string

	// OnProgress also receives every progress update
	OnProgress scan.Listener
}

// 📄 FileResult is what one document run produced
type FileResult struct {
	Path     string
	Mode     scan.Mode
	Scan     *scan.Result
	Changed  bool
	Written  bool
	Output   string // new content in replace mode, rendered highlights otherwise
	Diff     text.DiffSummary
	Phrases  int
	Source   string
	Checksum string
}

// ReplaceAll substitutes abbreviations in the document at path
func (o *operator) ReplaceAll(ctx context.Context, path string, opts FileOptions) (*FileResult, error) {
	return o.processFile(ctx, path, scan.ModeReplace, opts)
}

// HighlightAll marks abbreviable phrases in the document at path. The file
// itself is never rewritten.
func (o *operator) HighlightAll(ctx context.Context, path string, opts FileOptions) (*FileResult, error) {
	opts.DryRun = true
	return o.processFile(ctx, path, scan.ModeHighlight, opts)
}

// textDocument is a Document whose content can be read back after a scan
type textDocument interface {
	document.Document
	String() string
	Highlights() []document.Highlight
	Render(marker func(s string, c document.Color) string) string
}

func openText(content string) textDocument {
	return document.NewText(content)
}

func (o *operator) processFile(ctx context.Context, path string, mode scan.Mode, opts FileOptions) (*FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Str("mode", mode.String()).Logger()
	ctx = logger.WithContext(ctx)

	content, err := o.files.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}
	before := string(content)

	phrases, resolve, err := o.phraseSet(ctx)
	if err != nil {
		return nil, err
	}

	doc := o.open(before)
	session := document.NewSession(doc)

	reporter, listen := o.report(ctx, fmt.Sprintf("%s %s", mode, path), opts.OnProgress)
	res, scanErr := o.engine.ScanAndApply(ctx, session, phrases, resolve, mode, listen)
	reporter.Done(ctx)

	// the owner goroutine has exited; doc is ours again
	session.Close()

	result := &FileResult{
		Path:    path,
		Mode:    mode,
		Scan:    res,
		Phrases: len(phrases),
		Source:  o.config.Scan.PhraseSource,
	}

	if scanErr != nil {
		scanErr = errors.Errorf("scanning %s: %w", path, scanErr)
		info := status.DocumentInfo{Path: path, Status: status.StatusFailed, Error: scanErr}

		// edits made before the host failed stay, as they would in an open editor
		if after := doc.String(); mode == scan.ModeReplace && after != before {
			result.Output = after
			result.Changed = true
			if !opts.DryRun {
				if err := o.write(ctx, path, []byte(after), opts.Backup); err != nil {
					logger.Error().Err(err).Msg("partial result not written")
				} else {
					result.Written = true
					info.Size = int64(len(after))
					info.Checksum = status.Checksum([]byte(after))
					result.Checksum = info.Checksum
				}
			}
		}

		o.files.TrackDocument(ctx, info)
		return result, scanErr
	}

	matches := res.Matches
	info := status.DocumentInfo{Path: path, Matches: matches}

	switch mode {
	case scan.ModeHighlight:
		marker := opts.Marker
		if marker == nil {
			marker = document.BracketMarker
		}
		result.Output = doc.Render(marker)
		result.Changed = len(doc.Highlights()) > 0
		info.Status = status.StatusUnchanged
		if result.Changed {
			info.Status = status.StatusHighlighted
		}
		info.Size = int64(len(before))
		info.Checksum = status.Checksum(content)
	default:
		after := doc.String()
		result.Output = after
		result.Changed = after != before
		if opts.Diff {
			result.Diff = text.Diff(before, after)
		}
		info.Status = status.StatusUnchanged
		if result.Changed {
			info.Status = status.StatusModified
		}
		info.Size = int64(len(after))
		info.Checksum = status.Checksum([]byte(after))

		if result.Changed && !opts.DryRun {
			if err := o.write(ctx, path, []byte(after), opts.Backup); err != nil {
				info.Status = status.StatusFailed
				info.Error = err
				o.files.TrackDocument(ctx, info)
				return result, err
			}
			result.Written = true
		}
	}
	result.Checksum = info.Checksum

	o.files.TrackDocument(ctx, info)

	logger.Debug().
		Bool("changed", result.Changed).
		Bool("written", result.Written).
		Bool("cancelled", res.Cancelled).
		Int("matches", matches).
		Msg("document processed")

	return result, nil
}

func (o *operator) write(ctx context.Context, path string, content []byte, backup bool) error {
	if backup {
		if err := o.files.BackupFile(ctx, path); err != nil {
			return errors.Errorf("backing up %s: %w", path, err)
		}
	}
	if err := o.files.WriteFileAtomic(ctx, path, content); err != nil {
		if backup {
			if rerr := o.files.RestoreFile(ctx, path); rerr != nil {
				zerolog.Ctx(ctx).Error().Err(rerr).Msg("restoring backup")
			}
		}
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Phrases lists the candidate phrases a scan would look for
func (o *operator) Phrases(ctx context.Context) ([]string, error) {
	phrases, _, err := o.phraseSet(ctx)
	return phrases, err
}

// phraseSet picks the candidate phrases and resolver for the configured
// phrase source
func (o *operator) phraseSet(ctx context.Context) ([]string, scan.ResolveFunc, error) {
	chain := scan.ChainResolver(o.mirror, o.store)

	if o.config.Scan.PhraseSource != config.PhraseSourceAutocorrect {
		return o.store.AllPhrases(), chain, nil
	}

	entries, err := o.table.Entries(ctx)
	if err != nil {
		return nil, nil, errors.Errorf("listing autocorrect entries: %w", err)
	}
	values := make(map[string]string, len(entries))
	phrases := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		values[e.Name] = e.Value
		phrases = append(phrases, e.Name)
	}
	return phrases, entryResolver(values, chain), nil
}

func entryResolver(values map[string]string, fallback scan.ResolveFunc) scan.ResolveFunc {
	return func(phrase string) string {
		if v, ok := values[phrase]; ok && v != "" {
			return v
		}
		return fallback(phrase)
	}
}

// report starts a progress bar titled title. The returned listener feeds the
// bar and then next, when set.
func (o *operator) report(ctx context.Context, title string, next scan.Listener) (*status.ProgressReporter, scan.Listener) {
	reporter := o.files.NewProgressReporter(ctx, title, o.progress)
	listen := reporter.Listen(ctx)
	if next == nil {
		return reporter, listen
	}
	return reporter, func(p scan.Progress) {
		listen(p)
		next(p)
	}
}
