/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package registry keeps the set of subscribers notified on cache invalidation.
package registry

import (
	"errors"
	"sync"
)

var (
	// ErrDuplicate is returned when registering a member twice.
	ErrDuplicate = errors.New("registry: already registered")

	// ErrNotRegistered is returned when removing an unknown member.
	ErrNotRegistered = errors.New("registry: not registered")
)

// Registry is an insertion-ordered set of subscribers.
// It is safe for concurrent use.
type Registry[T comparable] struct {
	mu      sync.RWMutex
	members []T
	index   map[T]int // member -> position in members
}

// New creates an empty registry.
func New[T comparable]() *Registry[T] {
	return &Registry[T]{
		index: make(map[T]int),
	}
}

// Register adds a member.
func (r *Registry[T]) Register(m T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[m]; ok {
		return ErrDuplicate
	}
	r.index[m] = len(r.members)
	r.members = append(r.members, m)
	return nil
}

// Unregister removes a member, keeping the order of the others.
func (r *Registry[T]) Unregister(m T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[m]
	if !ok {
		return ErrNotRegistered
	}
	delete(r.index, m)

	copy(r.members[pos:], r.members[pos+1:])
	var zero T
	r.members[len(r.members)-1] = zero
	r.members = r.members[:len(r.members)-1]
	for i := pos; i < len(r.members); i++ {
		r.index[r.members[i]] = i
	}
	return nil
}

// Contains reports whether m is registered.
func (r *Registry[T]) Contains(m T) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[m]
	return ok
}

// Len returns the number of members.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

// Snapshot returns a copy of the members in registration order.
// Changes to the registry do not affect a snapshot already taken, so
// callers may notify members that register or unregister others.
func (r *Registry[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, len(r.members))
	copy(result, r.members)
	return result
}
