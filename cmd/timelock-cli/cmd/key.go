// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/crypto/ed25519"
	"github.com/ava-labs/timelock/ledger"
	"github.com/ava-labs/timelock/utils"
)

const maxKeyNameLen = 64

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage named keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a named ed25519 key, prompting for the name if omitted",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				var name string
				if len(args) == 1 {
					name = args[0]
				} else {
					var err error
					name, err = promptKeyName()
					if err != nil {
						return err
					}
				}
				priv, err := keyCreateFunc(a.db, name)
				if err != nil {
					return err
				}
				a.log.Debug("key create successful", zap.String("name", name))
				utils.Outf("{{green}}created key:{{/}} %s %s\n", name, priv.Address())
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List named keys and their balances",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				keys, err := listKeys(a.db)
				if err != nil {
					return err
				}
				for _, k := range keys {
					bal, err := a.ledger.Balance(k.Address())
					if err != nil {
						return err
					}
					utils.Outf("{{yellow}}%s{{/}} %s {{cyan}}%s{{/}}\n", k.name, k.Address(), utils.FormatBalance(bal))
				}
				return nil
			},
		},
	)
	return cmd
}

type namedKey struct {
	name string
	ed25519.PrivateKey
}

// [ledger.KeyPrefix] + [name]
func keyKey(name string) []byte {
	k := make([]byte, 1+len(name))
	k[0] = ledger.KeyPrefix
	copy(k[1:], name)
	return k
}

func checkKeyName(name string) error {
	if len(name) == 0 || len(name) > maxKeyNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidKeyName, name)
	}
	return nil
}

func promptKeyName() (string, error) {
	promptText := promptui.Prompt{
		Label:    "key name",
		Validate: checkKeyName,
	}
	return promptText.Run()
}

func keyCreateFunc(db ledger.Store, name string) (ed25519.PrivateKey, error) {
	if err := checkKeyName(name); err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	_, ok, err := getKey(db, name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	}
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	batch := db.NewBatch()
	if err := batch.Put(keyKey(name), priv[:]); err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	return priv, batch.Write()
}

func getKey(db ledger.Store, name string) (ed25519.PrivateKey, bool, error) {
	v, err := db.Get(keyKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, false, nil
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, false, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, false, fmt.Errorf("%w: key %s is %d bytes", ErrCorruptKey, name, len(v))
	}
	return ed25519.PrivateKey(v), true, nil
}

func mustGetKey(db ledger.Store, name string) (ed25519.PrivateKey, error) {
	priv, ok, err := getKey(db, name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if !ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return priv, nil
}

// listKeys returns every named key in name order.
func listKeys(db ledger.Store) ([]namedKey, error) {
	it := db.NewIteratorWithPrefix([]byte{ledger.KeyPrefix})
	defer it.Release()

	var keys []namedKey
	for it.Next() {
		if len(it.Value()) != ed25519.PrivateKeyLen {
			continue
		}
		keys = append(keys, namedKey{
			name:       string(it.Key()[1:]),
			PrivateKey: ed25519.PrivateKey(it.Value()),
		})
	}
	return keys, it.Error()
}

// resolveAddress accepts either the name of a stored key or a base58
// address.
func resolveAddress(db ledger.Store, s string) (codec.Address, error) {
	priv, ok, err := getKey(db, s)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if ok {
		return priv.Address(), nil
	}
	return codec.ParseAddress(s)
}
