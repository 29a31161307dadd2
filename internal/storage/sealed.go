package storage

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pfrederiksen/lovetrack/internal/crypto"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

const (
	sealedFormat  = "lovetrack-encrypted"
	sealedVersion = 1
)

// sealedBackup wraps an encrypted ExportSnapshot payload.
type sealedBackup struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Salt    string `json:"salt"`
	Data    string `json:"data"`
}

func isSealed(raw []byte) bool {
	var probe struct {
		Format string `json:"format"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.Format == sealedFormat
}

// ExportEncrypted produces a backup whose envelope is sealed with passphrase.
// A fresh salt is generated for every export.
func ExportEncrypted(data *model.AppData, passphrase string) ([]byte, error) {
	plain, err := ExportSnapshot(data)
	if err != nil {
		return nil, err
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	enc, err := crypto.NewEncryptor(passphrase, salt)
	if err != nil {
		return nil, err
	}
	ciphertext, err := enc.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}

	out, err := json.MarshalIndent(sealedBackup{
		Format:  sealedFormat,
		Version: sealedVersion,
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Data:    ciphertext,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sealed backup: %w", err)
	}

	logger.IncrCounter("storage.export.sealed")
	return out, nil
}

// ImportSnapshotWithPassphrase imports either a plain or a sealed backup. Plain backups
// ignore the passphrase. A wrong passphrase is reported as ErrMalformed wrapping
// crypto.ErrDecrypt.
func ImportSnapshotWithPassphrase(raw []byte, passphrase string) (*model.AppData, error) {
	raw = trimInput(raw)
	data, err := ImportSnapshot(raw)
	if err == nil || !errors.Is(err, ErrEncrypted) {
		return data, err
	}
	if passphrase == "" {
		return nil, err
	}

	var sealed sealedBackup
	if err := json.Unmarshal(raw, &sealed); err != nil {
		return nil, importError(ErrInvalidFormat, err)
	}
	if sealed.Version != sealedVersion {
		return nil, importError(ErrInvalidFormat, fmt.Errorf("unsupported sealed backup version %d", sealed.Version))
	}

	salt, err := base64.StdEncoding.DecodeString(sealed.Salt)
	if err != nil {
		return nil, importError(ErrInvalidFormat, fmt.Errorf("decoding salt: %w", err))
	}
	enc, err := crypto.NewEncryptor(passphrase, salt)
	if err != nil {
		return nil, importError(ErrInvalidFormat, err)
	}
	plain, err := enc.Decrypt(sealed.Data)
	if err != nil {
		return nil, importError(ErrMalformed, err)
	}

	// A sealed payload must not itself be sealed.
	if isSealed(plain) {
		return nil, importError(ErrInvalidFormat, fmt.Errorf("nested sealed backup"))
	}
	return ImportSnapshot(plain)
}
