// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.
package model

import "time"

// BackupSchemaVersion is bumped whenever the backup layout changes.
const BackupSchemaVersion = 1

// BackupData is a container for everything exported by a backup. Sealed
// columns stay sealed; a backup is useless without the master secret.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	Meta        *VaultMeta         `json:"meta,omitempty"`
	Credentials []StoredCredential `json:"credentials"`
}

// VaultMeta describes an initialized vault: key derivation parameters and
// the verifier used to check a master secret.
type VaultMeta struct {
	Salt          []byte    `json:"salt"`
	Verifier      []byte    `json:"verifier"`
	EncryptAtRest bool      `json:"encrypt_at_rest"`
	KDFTime       uint32    `json:"kdf_time"`
	KDFMemoryKiB  uint32    `json:"kdf_memory_kib"`
	KDFThreads    uint8     `json:"kdf_threads"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredCredential is a credential row as the storage layer sees it. Secret
// is always sealed; Username, URL and Notes are sealed when Sealed is true.
type StoredCredential struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Username  string     `json:"username"`
	Secret    string     `json:"secret"`
	URL       string     `json:"url,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Sealed    bool       `json:"sealed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Deleted   bool       `json:"deleted"`
}
