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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎬 Operation is one unit of work handed to a runner
type Operation interface {
	Execute(ctx context.Context) error
}

// OperationFunc adapts a function to Operation
type OperationFunc func(ctx context.Context) error

func (f OperationFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// 🏃 OperationRunner executes operations one at a time
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if r.async {
		return r.runAsync(ctx, op)
	}
	return r.runSync(ctx, op)
}

// 📚 RunAll executes ops in order and stops at the first failure or
// cancellation
func (r *OperationRunner) RunAll(ctx context.Context, ops ...Operation) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			r.logger.Debug().Int("done", i).Int("total", len(ops)).Msg("run cancelled")
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := r.Run(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// 🔄 runSync runs an operation synchronously
func (r *OperationRunner) runSync(ctx context.Context, op Operation) error {
	return op.Execute(ctx)
}

// ⚡ runAsync runs an operation on its own goroutine. On cancellation the
// operation is still waited for, so no document is left half written.
func (r *OperationRunner) runAsync(ctx context.Context, op Operation) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- op.Execute(ctx)
	}()

	select {
	case <-ctx.Done():
		r.logger.Debug().Msg("cancellation requested, waiting for operation to stop")
		if err := <-errCh; err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
		return nil
	}
}
