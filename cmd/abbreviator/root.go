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

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/abbreviator/cmd/abbreviator/opts"
	"github.com/walteh/abbreviator/pkg/autocorrect"
	"github.com/walteh/abbreviator/pkg/config"
	"github.com/walteh/abbreviator/pkg/dictionary"
	"github.com/walteh/abbreviator/pkg/log"
	"github.com/walteh/abbreviator/pkg/operation"
	"github.com/walteh/abbreviator/pkg/state"
	"github.com/walteh/abbreviator/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	noProgress bool
)

// newRootOpts fills o with initialized dependencies
func newRootOpts(ctx context.Context, o *opts.RootOpts) error {
	logger := zerolog.Ctx(ctx)
	fs := afero.NewOsFs()

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	o.UserLogger = log.New(os.Stdout, level)

	// Load config
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(ctx, fs, path)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	if err := cfg.ResolvePaths(); err != nil {
		return errors.Errorf("resolving data paths: %w", err)
	}
	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	// Load dictionary
	source, err := dictionary.SourceFromPath(fs, cfg.Dictionary.Source)
	if err != nil {
		return errors.Errorf("choosing dictionary source: %w", err)
	}
	var storeOpts []dictionary.Option
	if !cfg.Dictionary.NoCache {
		storeOpts = append(storeOpts, dictionary.WithCache(state.New(fs, cfg.Dictionary.CachePath)))
	}
	store := dictionary.New(source, storeOpts...)
	if err := store.Load(ctx); err != nil {
		// scans refuse to start until a reload succeeds
		logger.Warn().Err(err).Msg("dictionary not loaded")
	}

	// Open autocorrect table
	table, err := autocorrect.OpenSQLite(ctx, cfg.Autocorrect.Database)
	if err != nil {
		return errors.Errorf("opening autocorrect table: %w", err)
	}

	files := status.New(fs, logger)

	opOpts := operation.Options{
		Config: cfg,
		Store:  store,
		Table:  table,
		Files:  files,
	}
	if !noProgress {
		opOpts.Progress = os.Stderr
	}
	op, err := operation.New(opOpts)
	if err != nil {
		_ = table.Close()
		return errors.Errorf("creating operator: %w", err)
	}

	if err := op.Resume(ctx); err != nil {
		logger.Warn().Err(err).Msg("autocorrect mirror not restored")
	}

	o.Fs = fs
	o.Config = cfg
	o.Operator = op
	o.Runner = operation.NewRunner(logger, cfg.Async)
	o.Close = table.Close
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (yaml, hcl or json)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}
