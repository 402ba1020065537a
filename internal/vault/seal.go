// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"fmt"

	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
)

// sealInto fills the payload columns of r from f. The secret is always
// sealed; with encryptAtRest the username, url and notes are sealed as well
// and r.Sealed records that. Empty optional fields stay empty.
func sealInto(r *model.StoredCredential, sealer *security.Sealer, encryptAtRest bool, f model.Fields) error {
	secret, err := sealer.Seal(f.Secret)
	if err != nil {
		return fmt.Errorf("seal secret: %w", err)
	}
	r.Title = f.Title
	r.Secret = secret
	r.Username, r.URL, r.Notes = f.Username, f.URL, f.Notes
	r.Sealed = encryptAtRest
	if !encryptAtRest {
		return nil
	}
	for _, p := range []*string{&r.Username, &r.URL, &r.Notes} {
		if *p == "" {
			continue
		}
		if *p, err = sealer.Seal(*p); err != nil {
			return fmt.Errorf("seal field: %w", err)
		}
	}
	return nil
}

func openRow(sealer *security.Sealer, r model.StoredCredential) (model.Credential, error) {
	c := model.Credential{
		ID: r.ID,
		Fields: model.Fields{
			Title:    r.Title,
			Username: r.Username,
			URL:      r.URL,
			Notes:    r.Notes,
		},
		CreatedAt: r.CreatedAt,
	}
	if r.UpdatedAt != nil {
		c.UpdatedAt = *r.UpdatedAt
	}
	var err error
	if c.Secret, err = sealer.Open(r.Secret); err != nil {
		return model.Credential{}, fmt.Errorf("open credential %s: %w", r.ID, err)
	}
	if !r.Sealed {
		return c, nil
	}
	for _, p := range []*string{&c.Username, &c.URL, &c.Notes} {
		if *p == "" {
			continue
		}
		if *p, err = sealer.Open(*p); err != nil {
			return model.Credential{}, fmt.Errorf("open credential %s: %w", r.ID, err)
		}
	}
	return c, nil
}
