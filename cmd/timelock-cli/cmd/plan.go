// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/timelock/fault"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Steps to perform, in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to perform. (required)
	Op Op `json:"op" yaml:"op"`

	// Key names. [Admin] signs and pays for every transaction.
	Admin string `json:"admin,omitempty" yaml:"admin,omitempty"`
	Mint  string `json:"mint,omitempty" yaml:"mint,omitempty"`
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty"`

	// Lamports for key, tokens for mint and lock. A lock without an amount
	// locks the whole balance.
	Amount   *uint64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Slots    uint64  `json:"slots,omitempty" yaml:"slots,omitempty"`
	Decimals uint8   `json:"decimals,omitempty" yaml:"decimals,omitempty"`

	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Op string

const (
	// Create a named key if missing and airdrop it [Amount] lamports.
	OpKey Op = "key"
	// Create [Mint] if missing and issue [Amount] tokens to [Owner].
	OpMint Op = "mint"
	// Lock [Amount] tokens of [Mint] held by [Admin] for [Slots].
	OpLock Op = "lock"
	// Empty the vault of [Admin] and [Mint].
	OpEmpty Op = "empty"
	// Advance the clock by [Slots].
	OpWarp Op = "warp"
	// Report the lamports of [Owner], or its tokens if [Mint] is set.
	OpBalance Op = "balance"
	// Report the slots until the vault of [Admin] and [Mint] unlocks.
	OpVault Op = "vault"
)

func NewResponse(id int) *Response {
	return &Response{
		ID: id,
	}
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The result of the step.
	Result Result `json:"result"`
	// The error message if the step could not run.
	Error string `json:"error,omitempty"`
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type Result struct {
	// The id of the transaction that was processed.
	TxID string `json:"txID,omitempty"`
	// Whether the transaction succeeded.
	Success bool `json:"success"`
	// Set when the transaction failed.
	Code  fault.Code `json:"code,omitempty"`
	Error string     `json:"error,omitempty"`
	// The balance, amount or slot count the step reports.
	Value uint64 `json:"value"`
	// An optional message.
	Msg string `json:"msg,omitempty"`
}

type Require struct {
	// Whether the step's transaction must succeed.
	Success *bool `json:"success,omitempty" yaml:"success,omitempty"`
	// Assertions against the value of the step.
	Result *ResultAssertion `json:"result,omitempty" yaml:"result,omitempty"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator string `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

// validateAssertion compares [actual] against [assertion].
func validateAssertion(actual uint64, assertion *ResultAssertion) (bool, error) {
	value, err := strconv.ParseUint(assertion.Value, 10, 64)
	if err != nil {
		return false, err
	}

	switch Operator(assertion.Operator) {
	case NumericGt:
		return actual > value, nil
	case NumericLt:
		return actual < value, nil
	case NumericGe:
		return actual >= value, nil
	case NumericLe:
		return actual <= value, nil
	case NumericEq:
		return actual == value, nil
	case NumericNe:
		return actual != value, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, assertion.Operator)
	}
}

// check fails if [result] does not satisfy [r].
func (r *Require) check(result *Result) error {
	if r == nil {
		return nil
	}
	if r.Success != nil && *r.Success != result.Success {
		return fmt.Errorf("%w: success is %t (%s)", ErrAssertionFailed, result.Success, result.Error)
	}
	if r.Result == nil {
		return nil
	}
	ok, err := validateAssertion(result.Value, r.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d %s %s", ErrAssertionFailed, result.Value, r.Result.Operator, r.Result.Value)
	}
	return nil
}

func unmarshalPlan(bytes []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(string(bytes)):
		if err := json.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	case isYAML(string(bytes)):
		if err := yaml.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}

	return &p, nil
}

func isJSON(s string) bool {
	var js map[string]interface{}
	return json.Unmarshal([]byte(s), &js) == nil
}

func isYAML(s string) bool {
	var y map[string]interface{}
	return yaml.Unmarshal([]byte(s), &y) == nil
}

func (p *Plan) verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPlan, "no steps found")
	}
	for i, step := range p.Steps {
		if err := step.verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	switch s.Op {
	case OpKey:
		return requireParams(map[string]string{"admin": s.Admin})
	case OpMint, OpLock, OpEmpty, OpVault:
		return requireParams(map[string]string{"admin": s.Admin, "mint": s.Mint})
	case OpBalance:
		if s.Owner == "" && s.Admin == "" {
			return fmt.Errorf("%w: owner", ErrMissingParam)
		}
		return nil
	case OpWarp:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, s.Op)
	}
}

func requireParams(params map[string]string) error {
	for name, v := range params {
		if v == "" {
			return fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
	}
	return nil
}
