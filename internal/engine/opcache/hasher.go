// Package opcache memoizes modeling operations by the signature of their
// configuration and evicts whatever a session did not touch.
package opcache

import (
	"errors"
	"unicode/utf16"

	"github.com/goccy/go-json"
	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/zerr"
)

// Canonical returns the canonical argument form of op. Kernel handles are not
// part of it, so structurally equal calls over different kernel objects
// produce the same form.
func Canonical(op domain.Op) (string, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrCanonicalizeFailed, err), "op", op.OpName())
	}
	return string(data), nil
}

// Sign reduces an operation name and canonical argument form to a Signature.
//
// The digest is the 31-multiplier rolling hash over UTF-16 code units,
// truncated to 32 bits. Distinct inputs may collide; a collision serves a
// plausible but stale cached shape and is not detected.
func Sign(name, canonical string) domain.Signature {
	var h int32
	for _, s := range []string{name, canonical} {
		for _, r := range s {
			if r >= 0x10000 {
				r1, r2 := utf16.EncodeRune(r)
				h = h*31 + r1
				h = h*31 + r2
				continue
			}
			h = h*31 + r
		}
	}
	return domain.Signature(h)
}

// SignOp canonicalizes op and returns its signature.
func SignOp(op domain.Op) (domain.Signature, error) {
	raw, err := Canonical(op)
	if err != nil {
		return 0, err
	}
	return Sign(op.OpName(), raw), nil
}
