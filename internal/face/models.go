package face

import (
	"encoding/json"
	"fmt"
	"time"

	id "presensi/pkg/domain"
)

// Identity is an enrolled face template for one user. Embedding is the raw
// vector produced by the remote model; its length must match the model's
// configured dimension or the identity is treated as corrupt.
type Identity struct {
	UserID     id.UserID
	Embedding  []float32
	EnrolledAt time.Time
	UpdatedAt  time.Time
}

// EncodeEmbedding serializes a vector for storage as a JSON text column.
func EncodeEmbedding(embedding []float32) (string, error) {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(raw), nil
}

// DecodeEmbedding parses a stored JSON vector. An error here means the stored
// template is corrupt and the identity should be skipped, not failed on.
func DecodeEmbedding(raw string) ([]float32, error) {
	var embedding []float32
	if err := json.Unmarshal([]byte(raw), &embedding); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	return embedding, nil
}
