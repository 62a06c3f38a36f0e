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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent document entries
	nameWidth   = 35 // Base width for document path
	modeWidth   = 10 // Width for scan mode
	statusWidth = 15 // Width for status text
)

// 🎯 DocumentOperation is the outcome of one scan over one document
type DocumentOperation struct {
	Path      string // Document path
	Mode      string // Scan mode (replace/highlight)
	Status    string // Operation status
	IsChanged bool   // Whether text was replaced
	IsMarked  bool   // Whether highlights were added
	IsFailed  bool   // Whether the scan aborted
	IsDryRun  bool   // Whether changes were kept in memory only
	Matches   int    // Number of replacements or highlights
}

// 📦 ScanOperation groups the documents of one command run
type ScanOperation struct {
	Mode     string   // Scan mode
	Source   string   // Where the phrases came from
	Phrases  int      // Number of candidate phrases
	Patterns []string // Document globs
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *ScanOperation
	operations []DocumentOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatDocumentOperation formats a document operation for display
func (l *Logger) formatDocumentOperation(op DocumentOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsChanged:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsMarked:
		symbol = '◉'
		symbolColor = color.FgYellow
	default:
		symbol = '-'
		symbolColor = color.FgHiBlack
	}

	var modeColor color.Attribute
	switch op.Mode {
	case "replace":
		modeColor = color.FgCyan
	case "highlight":
		modeColor = color.FgYellow
	default:
		modeColor = color.FgBlue
	}

	status := op.Status
	if op.IsDryRun {
		status += " (dry run)"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(modeColor).Sprint(fmt.Sprintf("%-*s", modeWidth, op.Mode)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogDocumentOperation logs the outcome for one document
func (l *Logger) LogDocumentOperation(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatDocumentOperation(op))

	l.zlog.Info().
		Str("document", op.Path).
		Str("mode", op.Mode).
		Str("status", op.Status).
		Bool("is_changed", op.IsChanged).
		Bool("is_marked", op.IsMarked).
		Bool("is_failed", op.IsFailed).
		Bool("is_dry_run", op.IsDryRun).
		Int("matches", op.Matches).
		Msg("document operation")
}

// 📝 StartScanOperation prints the header for a batch of documents
func (l *Logger) StartScanOperation(ctx context.Context, op ScanOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[%s %s]\n",
		op.Mode,
		color.New(color.FgCyan).Sprint(strings.Join(op.Patterns, " ")))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d phrases", op.Phrases))

	l.zlog.Info().
		Str("mode", op.Mode).
		Str("source", op.Source).
		Int("phrases", op.Phrases).
		Strs("patterns", op.Patterns).
		Msg("starting scan operation")
}

// 📝 EndScanOperation logs a summary of the current batch and returns it
func (l *Logger) EndScanOperation(ctx context.Context) []DocumentOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	matches := 0
	failed := 0
	for _, op := range ops {
		matches += op.Matches
		if op.IsFailed {
			failed++
		}
	}

	l.zlog.Info().
		Str("mode", l.currentOp.Mode).
		Int("documents", len(ops)).
		Int("matches", matches).
		Int("failed", failed).
		Msg("scan operation complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("abbreviator")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
