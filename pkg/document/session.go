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

package document

import (
	"context"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrSessionClosed is returned when work is submitted after Close.
var ErrSessionClosed = errors.Base("document session closed")

// 🧵 Session owns a Document on a single goroutine. Every access to the
// document goes through RunOnOwner, which blocks until the owner has run the
// callback.
type Session struct {
	doc   Document
	calls chan call
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

type call struct {
	fn     func(Document) error
	result chan error
}

// 🏭 NewSession starts the owner goroutine for doc
func NewSession(doc Document) *Session {
	s := &Session{
		doc:   doc,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// ▶️ RunOnOwner runs fn on the owner goroutine and waits for it to finish.
// ctx only bounds the hand-off; once the owner has accepted fn it runs to
// completion.
func (s *Session) RunOnOwner(ctx context.Context, fn func(Document) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("submitting to document owner: %w", err)
	}

	c := call{fn: fn, result: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return errors.Errorf("submitting to document owner: %w", ctx.Err())
	case <-s.done:
		return ErrSessionClosed
	case s.calls <- c:
	}

	return <-c.result
}

// Close stops the owner goroutine after any accepted call has finished
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Session) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case c := <-s.calls:
			c.result <- s.invoke(c.fn)
		}
	}
}

func (s *Session) invoke(fn func(Document) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("document owner panic: %v", r)
		}
	}()
	return fn(s.doc)
}
