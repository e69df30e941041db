package event

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmptyPayload indicates a record without a serialized feature set.
var ErrEmptyPayload = errors.New("empty event payload")

// Payload is the serialized feature representation of an event. The detector
// writes it once when the event is materialized; labeling rewrites only the
// Verification field. Field order in FeatureRow is part of the trained-model
// contract and must not change between training and scoring.
type Payload struct {
	ID          string  `msgpack:"id"`
	Start       int64   `msgpack:"start"`
	End         int64   `msgpack:"end"`
	Description string  `msgpack:"description"`
	MsgCount    int     `msgpack:"msgs"`
	AuthorCount int     `msgpack:"authors"`
	Entropy     float64 `msgpack:"entropy"`
	PPA         float64 `msgpack:"ppa"`
	Density     float64 `msgpack:"density"`
	Spread      float64 `msgpack:"spread"`
	MediaShare  float64 `msgpack:"media_share"`
	CopyRate    float64 `msgpack:"copy_rate"`

	// Verification mirrors the events.verification column so an exported
	// payload is self-describing. Nil until labeled.
	Verification *int `msgpack:"verification"`
}

// FeatureCount is the width of a flattened training row.
const FeatureCount = 8

// FeatureRow flattens the payload into the fixed-order feature vector the
// classifier trains on.
func (p *Payload) FeatureRow() []float64 {
	return []float64{
		float64(p.MsgCount),
		float64(p.AuthorCount),
		p.Entropy,
		p.PPA,
		p.Density,
		p.Spread,
		p.MediaShare,
		p.CopyRate,
	}
}

// Encode serializes the payload to its compact binary form.
func (p *Payload) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// Decode deserializes a payload blob.
func Decode(data []byte) (*Payload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

// SetVerification stamps the verdict into the payload without touching any
// feature field.
func (p *Payload) SetVerification(verified bool) {
	value := VerificationFake
	if verified {
		value = VerificationReal
	}
	p.Verification = &value
}
