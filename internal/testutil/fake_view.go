// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"sync"

	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
)

// FakeView records everything the application asks a view to do.
type FakeView struct {
	notify.Recorder

	mu            sync.Mutex
	Items         []model.Credential
	Batches       []int
	EmptyShown    int
	Clears        int
	ModalOpen     bool
	ModalDraft    model.Fields
	ModalMode     editor.Mode
	ModalShows    int
	MainVisible   bool
	ConfirmAnswer bool
	Confirms      []string
}

func (v *FakeView) RenderList(batch []model.Credential) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Items = append(v.Items, batch...)
	v.Batches = append(v.Batches, len(batch))
}

func (v *FakeView) RenderEmptyState() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.EmptyShown++
}

func (v *FakeView) ClearList() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Items, v.Batches = nil, nil
	v.Clears++
}

func (v *FakeView) ShowModal(draft model.Fields, mode editor.Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ModalOpen, v.ModalDraft, v.ModalMode = true, draft, mode
	v.ModalShows++
}

func (v *FakeView) HideModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ModalOpen = false
}

func (v *FakeView) Confirm(message string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Confirms = append(v.Confirms, message)
	return v.ConfirmAnswer
}

func (v *FakeView) ShowMain(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.MainVisible = visible
}

// RenderedIDs returns the ids currently shown in the list.
func (v *FakeView) RenderedIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.Items))
	for _, c := range v.Items {
		ids = append(ids, c.ID)
	}
	return ids
}

// Last returns the most recent notification, or the zero Message.
func (v *FakeView) Last() notify.Message {
	msgs := v.Messages()
	if len(msgs) == 0 {
		return notify.Message{}
	}
	return msgs[len(msgs)-1]
}
