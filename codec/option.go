// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/timelock/consts"
)

const (
	OptionNone uint8 = 0
	OptionSome uint8 = 1
)

// Fixed is the set of payloads that have a constant encoded size and can
// therefore live inside an Option in a fixed layout.
type Fixed interface {
	uint8 | PodBool | PodU16 | PodU32 | PodU64 | PodU128 | Address
}

// Option is an optional value with a stable wire form: a 1 byte tag
// ([OptionNone] or [OptionSome]) followed by the payload bytes. The payload is
// only reachable through Ref, Mut, Value and Take, which all check the tag
// first.
type Option[T Fixed] struct {
	tag   uint8
	value T
}

func None[T Fixed]() Option[T] {
	return Option[T]{}
}

func Some[T Fixed](v T) Option[T] {
	return Option[T]{tag: OptionSome, value: v}
}

// FromPtr returns None for a nil pointer and Some(*v) otherwise.
func FromPtr[T Fixed](v *T) Option[T] {
	if v == nil {
		return None[T]()
	}
	return Some(*v)
}

func (o Option[T]) IsSome() bool { return o.tag == OptionSome }

func (o Option[T]) IsNone() bool { return o.tag != OptionSome }

func (o Option[T]) Tag() uint8 { return o.tag }

func (o Option[T]) IsValidTag() bool {
	return o.tag == OptionNone || o.tag == OptionSome
}

// Ref returns a pointer to a copy of the payload, or nil when absent.
func (o Option[T]) Ref() *T {
	if !o.IsSome() {
		return nil
	}
	v := o.value
	return &v
}

// Mut returns a pointer to the payload held by o, or nil when absent.
func (o *Option[T]) Mut() *T {
	if !o.IsSome() {
		return nil
	}
	return &o.value
}

// Value returns the payload and whether it is present.
func (o Option[T]) Value() (T, bool) {
	if !o.IsSome() {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Take returns the payload (if any) and leaves o empty.
func (o *Option[T]) Take() (T, bool) {
	v, ok := o.Value()
	o.SetNone()
	return v, ok
}

func (o *Option[T]) SetSome(v T) {
	o.tag = OptionSome
	o.value = v
}

func (o *Option[T]) SetNone() {
	var zero T
	o.tag = OptionNone
	o.value = zero
}

// Ptr is the inverse of FromPtr.
func (o Option[T]) Ptr() *T {
	return o.Ref()
}

func (o Option[T]) String() string {
	if v, ok := o.Value(); ok {
		return fmt.Sprintf("Some(%v)", v)
	}
	return "None"
}

// Size is the encoded size of an Option[T].
func (Option[T]) Size() int {
	return consts.OptionTagLen + fixedLen[T]()
}

// Bytes encodes o. The payload bytes of an absent value are zero.
func (o Option[T]) Bytes() []byte {
	b := make([]byte, o.Size())
	b[0] = o.tag
	if o.IsSome() {
		putFixed(b[consts.OptionTagLen:], o.value)
	}
	return b
}

// UnmarshalOption decodes exactly one Option[T] from [b].
func UnmarshalOption[T Fixed](b []byte) (Option[T], error) {
	var o Option[T]
	if len(b) != o.Size() {
		return o, fmt.Errorf("%w: option expected %d bytes but got %d", ErrInvalidSize, o.Size(), len(b))
	}
	return OptionFromParts[T](b[0], b[consts.OptionTagLen:])
}

// OptionFromParts rebuilds an Option from a tag byte and its raw payload.
func OptionFromParts[T Fixed](tag uint8, payload []byte) (Option[T], error) {
	switch tag {
	case OptionNone:
		return None[T](), nil
	case OptionSome:
		if len(payload) != fixedLen[T]() {
			return None[T](), fmt.Errorf("%w: payload expected %d bytes but got %d", ErrInvalidSize, fixedLen[T](), len(payload))
		}
		return Some(getFixed[T](payload)), nil
	default:
		return None[T](), fmt.Errorf("%w: %d", ErrCorruptTag, tag)
	}
}

func fixedLen[T Fixed]() int {
	var v T
	switch any(v).(type) {
	case uint8, PodBool:
		return consts.ByteLen
	case PodU16:
		return consts.Uint16Len
	case PodU32:
		return consts.Uint32Len
	case PodU64:
		return consts.Uint64Len
	case PodU128:
		return consts.Uint128Len
	default:
		return AddressLen
	}
}

func putFixed[T Fixed](dst []byte, v T) {
	switch p := any(v).(type) {
	case uint8:
		dst[0] = p
	case PodBool:
		dst[0] = uint8(p)
	case PodU16:
		copy(dst, p[:])
	case PodU32:
		copy(dst, p[:])
	case PodU64:
		copy(dst, p[:])
	case PodU128:
		copy(dst, p[:])
	case Address:
		copy(dst, p[:])
	}
}

func getFixed[T Fixed](src []byte) T {
	var v T
	switch p := any(&v).(type) {
	case *uint8:
		*p = src[0]
	case *PodBool:
		*p = PodBool(src[0])
	case *PodU16:
		copy(p[:], src)
	case *PodU32:
		copy(p[:], src)
	case *PodU64:
		copy(p[:], src)
	case *PodU128:
		copy(p[:], src)
	case *Address:
		copy(p[:], src)
	}
	return v
}
