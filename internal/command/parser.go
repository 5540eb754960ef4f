// Package command turns a raw inbound chat message into a closed set of
// intents. Parsing is pure: no store access, no I/O, so the whole command
// surface is testable without fakes.
package command

import (
	"strings"

	"github.com/shopspring/decimal"

	"duitbot/internal/core"
)

// DefaultDescription is stored when a transaction command carries no
// description tokens.
const DefaultDescription = "transaksi via whatsapp"

type (
	// Intent is the classification of a parsed inbound message.
	Intent interface{ intent() }

	// Register is the bare "daftar" keyword.
	Register struct{}

	// Verify carries the code from "verify <code>". Code is empty when the
	// user sent "verify" with nothing after it; no stored code ever matches
	// the empty string, so it falls through as a mismatch downstream.
	Verify struct{ Code string }

	// CheckBalance is the bare "saldo" keyword.
	CheckBalance struct{}

	// Help is "help" or "bantuan".
	Help struct{}

	// Record is the transaction shorthand: "<kind> <amount> <description...>".
	Record struct {
		Kind        core.Kind
		Amount      decimal.Decimal
		Description string
	}
)

func (Register) intent()     {}
func (Verify) intent()       {}
func (CheckBalance) intent() {}
func (Help) intent()         {}
func (Record) intent()       {}

// Reason identifies why a message failed to parse as a transaction.
type Reason string

const (
	BadFormat     Reason = "bad_format"
	UnknownType   Reason = "unknown_type"
	InvalidAmount Reason = "invalid_amount"
)

// ParseError is user-facing: the executor translates it into a corrective
// reply instead of logging it as a failure.
type ParseError struct {
	Reason Reason
}

func (e *ParseError) Error() string {
	return "parse message: " + string(e.Reason)
}

// Parse classifies a trimmed inbound message. Command keywords are matched
// case-insensitively; the transaction description is stored lower-cased since
// casing carries no meaning for category detection.
func Parse(text string) (Intent, error) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "daftar":
		return Register{}, nil
	case "saldo":
		return CheckBalance{}, nil
	case "help", "bantuan":
		return Help{}, nil
	}

	if strings.HasPrefix(lower, "verify ") || lower == "verify" {
		// Only the keyword is case-insensitive; the code itself must match
		// the stored one exactly, so take it from the original-cased text.
		fields := strings.Fields(trimmed)
		code := ""
		if len(fields) > 1 {
			code = fields[1]
		}
		return Verify{Code: code}, nil
	}

	return parseTransaction(lower)
}

func parseTransaction(lower string) (Intent, error) {
	parts := strings.Split(lower, " ")
	if len(parts) < 2 {
		return nil, &ParseError{Reason: BadFormat}
	}

	amount, err := core.ParseAmount(parts[1])
	if err != nil {
		return nil, &ParseError{Reason: InvalidAmount}
	}

	var kind core.Kind
	switch {
	case strings.Contains(parts[0], "keluar"), strings.Contains(parts[0], "expense"):
		kind = core.Expense
	case strings.Contains(parts[0], "masuk"), strings.Contains(parts[0], "income"):
		kind = core.Income
	default:
		return nil, &ParseError{Reason: UnknownType}
	}

	description := DefaultDescription
	if len(parts) > 2 {
		description = strings.Join(parts[2:], " ")
	}

	return Record{Kind: kind, Amount: amount, Description: description}, nil
}
