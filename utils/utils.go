// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"math"
	"strconv"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// NativeDecimals is the precision of a lamport balance.
const NativeDecimals = 9

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

func FormatBalance(bal uint64) string {
	return FormatAmount(bal, NativeDecimals)
}

func ParseBalance(bal string) (uint64, error) {
	f, err := strconv.ParseFloat(bal, 64)
	if err != nil {
		return 0, err
	}
	return uint64(f * math.Pow10(NativeDecimals)), nil
}

// FormatAmount renders a raw token amount of a mint with [decimals].
func FormatAmount(amount uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(amount, 10)
	}
	unit := uint64(1)
	for i := uint8(0); i < decimals && unit <= math.MaxUint64/10; i++ {
		unit *= 10
	}
	return fmt.Sprintf("%d.%0*d", amount/unit, int(decimals), amount%unit)
}
