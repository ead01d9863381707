package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// encEnvelopeKey marks an encrypted snapshot payload in the data column.
const encEnvelopeKey = "_enc"

// encodeData marshals a version's data payload for the JSONB data
// column, encrypting it into an {"_enc": "base64..."} envelope when
// at-rest encryption is enabled.
func (b *Base) encodeData(ctx context.Context, contentType string, data map[string]any) ([]byte, error) {
	plain, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling data snapshot: %w", err)
	}

	if b.Crypto == nil {
		return plain, nil
	}

	ciphertext, err := b.Crypto.Encrypt(ctx, contentType, plain)
	if err != nil {
		return nil, fmt.Errorf("encrypting data snapshot: %w", err)
	}

	enc, err := json.Marshal(map[string]string{encEnvelopeKey: ciphertext})
	if err != nil {
		return nil, fmt.Errorf("marshalling encrypted envelope: %w", err)
	}

	return enc, nil
}

// decodeData unmarshals a data column value, transparently decrypting
// an encryption envelope. Plaintext rows decode as-is, so toggling
// encryption on does not break reads of older rows.
func (b *Base) decodeData(ctx context.Context, contentType string, raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshalling data snapshot: %w", err)
	}

	ct, ok := data[encEnvelopeKey]
	if !ok {
		return data, nil
	}

	ciphertext, ok := ct.(string)
	if !ok {
		return nil, fmt.Errorf("encrypted value is not a string")
	}

	if b.Crypto == nil {
		return nil, fmt.Errorf("encrypted snapshot but encryption is not configured")
	}

	plain, err := b.Crypto.Decrypt(ctx, contentType, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting data snapshot: %w", err)
	}

	var decrypted map[string]any
	if err := json.Unmarshal(plain, &decrypted); err != nil {
		return nil, fmt.Errorf("unmarshalling decrypted snapshot: %w", err)
	}

	return decrypted, nil
}
