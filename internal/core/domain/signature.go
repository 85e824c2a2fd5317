package domain

import "strconv"

// Signature is the cache key of a modeling operation: a 32-bit digest of the
// operation name and its canonical arguments. Collisions are possible and
// tolerated; see opcache.Sign.
type Signature int32

// String returns the decimal form of the signature.
func (s Signature) String() string {
	return strconv.FormatInt(int64(s), 10)
}
