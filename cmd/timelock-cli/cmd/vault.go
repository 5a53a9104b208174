// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/ava-labs/timelock/codec"
	"github.com/ava-labs/timelock/consts"
	"github.com/ava-labs/timelock/sdk"
	"github.com/ava-labs/timelock/utils"
	"github.com/ava-labs/timelock/vault"
)

func newVaultCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Inspect vaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "address [admin] [mint]",
			Short: "Derive the vault of an admin and mint",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				admin, mint, err := a.resolvePair(args[0], args[1])
				if err != nil {
					return err
				}
				addr, salt, err := a.builder.VaultAddress(admin, mint)
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}vault:{{/}} %s {{yellow}}salt:{{/}} %d\n", addr, salt)
				return nil
			},
		},
		&cobra.Command{
			Use:   "decode [hex|base58]",
			Short: "Decode raw vault data",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				data, err := decodeData(args[0])
				if err != nil {
					return err
				}
				v, err := vault.DecodeUnchecked(data)
				if err != nil {
					return err
				}
				utils.Outf("%s\n", v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [admin]",
			Short: "List every vault of an admin",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				admin, err := resolveAddress(a.db, args[0])
				if err != nil {
					return err
				}
				accounts, err := a.ledger.ProgramAccounts(a.cfg.ProgramID, sdk.AdminFilter(admin))
				if err != nil {
					return err
				}
				slot := a.ledger.Slot()
				for _, acct := range accounts {
					v, err := sdk.DecodeVault(acct.Data)
					if err != nil {
						return err
					}
					remaining := v.Remaining(slot)
					utils.Outf(
						"{{yellow}}%s{{/}} mint=%s remaining=%d slots (%d epochs)\n",
						acct.Key,
						v.Mint,
						remaining,
						remaining/consts.SlotsPerEpoch,
					)
				}
				if len(accounts) == 0 {
					utils.Outf("{{red}}no vaults{{/}}\n")
				}
				return nil
			},
		},
	)
	return cmd
}

func (a *app) resolvePair(first, second string) (codec.Address, codec.Address, error) {
	x, err := resolveAddress(a.db, first)
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, err
	}
	y, err := resolveAddress(a.db, second)
	if err != nil {
		return codec.EmptyAddress, codec.EmptyAddress, err
	}
	return x, y, nil
}

// decodeData reads hex (optionally 0x prefixed) and falls back to base58.
func decodeData(s string) ([]byte, error) {
	if b, err := codec.LoadHex(s, -1); err == nil {
		return b, nil
	}
	return base58.Decode(s)
}
