// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"reflect"

	"github.com/near/borsh-go"
)

// Marshal encodes a layout struct and asserts that the result is exactly
// [size] bytes.
//
// Layout structs must only contain exported fixed-size fields (unsigned
// integers and byte arrays). Borsh writes integers little-endian and arrays
// element by element, so the encoding of such a struct is its packed,
// alignment-1 representation. A pointer is encoded as the struct it points
// to, never as a borsh optional.
func Marshal(v any, size int) ([]byte, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil layout", ErrInvalidSize)
	}
	b, err := borsh.Serialize(rv.Interface())
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: layout encoded to %d bytes but expected %d", ErrInvalidSize, len(b), size)
	}
	return b, nil
}

// Unmarshal decodes [b] into the layout struct pointed to by [v]. [b] must be
// exactly [size] bytes.
func Unmarshal(b []byte, size int, v any) error {
	if len(b) != size {
		return fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSize, size, len(b))
	}
	return borsh.Deserialize(v, b)
}
