// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

type Permissions byte

const (
	Read Permissions = 1 << iota
	Write

	None Permissions = 0
	All              = Read | Write
)

func (p Permissions) Has(require Permissions) bool {
	return p&require == require
}

// Keys is the scope of a view: every key it may touch and how.
type Keys map[string]Permissions

// Add grants [permission] on [key], merging with any permission already
// granted. Returns false if nothing changed.
func (k Keys) Add(key string, permission Permissions) bool {
	prev := k[key]
	if prev.Has(permission) {
		return false
	}
	k[key] = prev | permission
	return true
}
