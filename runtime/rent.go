// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

const (
	// AccountStorageOverhead is charged on top of every account's data.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3_480
	DefaultExemptionThreshold  = 2
)

var DefaultRent = Rent{
	LamportsPerByteYear: DefaultLamportsPerByteYear,
	ExemptionThreshold:  DefaultExemptionThreshold,
}

// Rent determines the balance an account must hold to persist.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamportsPerByteYear"`
	ExemptionThreshold  uint64 `json:"exemptionThreshold"`
}

// MinimumBalance is the rent-exempt balance for [size] bytes of data.
func (r Rent) MinimumBalance(size int) uint64 {
	return (AccountStorageOverhead + uint64(size)) * r.LamportsPerByteYear * r.ExemptionThreshold
}
