// Package protocol implements the message exchange between a host and a
// worker: payload normalization, an in-process connection, request dispatch
// and the worker loop.
package protocol

import (
	"errors"

	"github.com/goccy/go-json"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/zerr"
)

// Normalize returns msg with its payload reduced to plain data: maps,
// slices, strings, float64 and bool. Every connection normalizes on Send so
// both ends see the same values whatever the transport.
func Normalize(msg domain.Message) (domain.Message, error) {
	if msg.Payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return domain.Message{}, zerr.With(errors.Join(domain.ErrPayloadEncodeFailed, err), "type", msg.Type)
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return domain.Message{}, zerr.With(errors.Join(domain.ErrPayloadEncodeFailed, err), "type", msg.Type)
	}
	return domain.Message{Type: msg.Type, Payload: plain}, nil
}

// Decode converts a plain payload into T. A nil payload decodes to the zero value.
func Decode[T any](payload any) (T, error) {
	var out T
	if payload == nil {
		return out, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return out, errors.Join(domain.ErrPayloadDecodeFailed, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, errors.Join(domain.ErrPayloadDecodeFailed, err)
	}
	return out, nil
}
