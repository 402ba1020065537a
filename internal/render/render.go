// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package render exposes a record sequence to a view in fixed-size batches.
package render

import "github.com/toeirei/vaultpass/internal/model"

// DefaultBatchSize is the number of records emitted per batch.
const DefaultBatchSize = 4

// Sink receives rendered output.
type Sink interface {
	RenderList(batch []model.Credential)
	RenderEmptyState()
	ClearList()
}

// Renderer is a cursor over a sequence. It is not safe for concurrent use.
type Renderer struct {
	sink       Sink
	size       int
	seq        []model.Credential
	cursor     int
	emptyShown bool
}

// New returns a Renderer emitting batches of size to sink. A size below 1
// selects DefaultBatchSize.
func New(sink Sink, size int) *Renderer {
	if size < 1 {
		size = DefaultBatchSize
	}
	return &Renderer{sink: sink, size: size}
}

// BatchSize returns the configured batch size.
func (r *Renderer) BatchSize() int { return r.size }

// Reset clears the sink and starts over on seq.
func (r *Renderer) Reset(seq []model.Credential) {
	r.seq = append([]model.Credential(nil), seq...)
	r.cursor = 0
	r.emptyShown = false
	r.sink.ClearList()
}

// RenderNextBatch emits up to one batch and returns how many records it
// emitted. An empty sequence shows the empty state once instead.
func (r *Renderer) RenderNextBatch() int {
	if len(r.seq) == 0 {
		if !r.emptyShown {
			r.emptyShown = true
			r.sink.RenderEmptyState()
		}
		return 0
	}
	if r.cursor >= len(r.seq) {
		return 0
	}
	end := min(r.cursor+r.size, len(r.seq))
	batch := append([]model.Credential(nil), r.seq[r.cursor:end]...)
	r.cursor = end
	r.sink.RenderList(batch)
	return len(batch)
}

// Rendered returns how many records have been emitted since Reset.
func (r *Renderer) Rendered() int { return r.cursor }

// Remaining returns how many records are still to be emitted.
func (r *Renderer) Remaining() int { return len(r.seq) - r.cursor }

// HasMore reports whether RenderNextBatch would emit anything.
func (r *Renderer) HasMore() bool { return r.Remaining() > 0 }
