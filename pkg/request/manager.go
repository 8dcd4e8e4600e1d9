// Copyright 2026 The Relay Authors
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

// Package request tracks in-flight cancellable operations. The Manager is
// the single owner of the id-to-cancellation mapping; no other component may
// keep a competing registry.
package request

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle ties a request id to its cancellation source. The Manager owns the
// handle for its whole lifetime; callers keep the id and the derived context
// only, and a handle never outlives its operation.
type Handle struct {
	ID     string
	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context governing the request's I/O. It is cancelled
// when the request is cancelled through the Manager.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Cancelled reports whether the handle's cancellation signal has fired.
func (h *Handle) Cancelled() bool {
	return h.ctx.Err() != nil
}

type Manager struct {
	mu     sync.Mutex
	active map[string]*Handle
}

func NewManager() *Manager {
	return &Manager{
		active: make(map[string]*Handle),
	}
}

// Create allocates a fresh handle derived from parent and registers it in
// the active set.
func (m *Manager) Create(parent context.Context) *Handle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		ID:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}

	m.mu.Lock()
	m.active[h.ID] = h
	m.mu.Unlock()

	return h
}

// Cancel fires the handle's cancellation signal and removes it from the
// active set. Returns false for an unknown (or already finished) id, so
// cancellation is idempotent.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	h, exists := m.active[id]
	if exists {
		delete(m.active, id)
	}
	m.mu.Unlock()

	if !exists {
		return false
	}
	h.cancel()
	return true
}

// CancelAll cancels and removes every active handle.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.active))
	for _, h := range m.active {
		handles = append(handles, h)
	}
	m.active = make(map[string]*Handle)
	m.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
}

// Complete removes a handle on the normal completion path. The underlying
// CancelFunc still runs to release the context's resources, so no observer
// of handle.Context() may outlive the operation: after Complete the context
// reads as cancelled even though the operation succeeded.
func (m *Manager) Complete(id string) {
	m.mu.Lock()
	h, exists := m.active[id]
	if exists {
		delete(m.active, id)
	}
	m.mu.Unlock()

	if exists {
		// The operation already finished, nothing is listening anymore.
		h.cancel()
	}
}

// Get returns the active handle for id, or nil after cancel/complete.
func (m *Manager) Get(id string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[id]
}

// Count reports the number of in-flight requests.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
