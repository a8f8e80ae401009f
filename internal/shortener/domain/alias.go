package domain

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

const (
	GeneratedAliasLength = 6
	MinCustomAliasLength = 3
	MaxCustomAliasLength = 50

	// AliasAlphabet is the generator alphabet: digits, upper and lower case letters.
	AliasAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var aliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ReservedAliases collide with application routes or branding.
var ReservedAliases = []string{
	"api",
	"admin",
	"login",
	"signup",
	"register",
	"app",
	"dashboard",
	"settings",
	"help",
	"about",
	"contact",
	"terms",
	"privacy",
	"qr",
	"whatsapp",
	"shortener",
}

// NormalizeAlias returns the store key form of an alias.
func NormalizeAlias(alias string) string {
	return strings.ToLower(alias)
}

// IsReservedAlias reports whether alias equals a reserved word, ignoring case.
func IsReservedAlias(alias string) bool {
	return lo.Contains(ReservedAliases, NormalizeAlias(alias))
}

// IsWellFormedAlias reports whether s could name a stored link. Both
// generated and custom aliases satisfy it.
func IsWellFormedAlias(s string) bool {
	return len(s) >= MinCustomAliasLength && len(s) <= MaxCustomAliasLength && aliasRegex.MatchString(s)
}

// ValidateCustomAlias checks a caller-supplied alias for length, charset and
// reserved words. Availability is not checked here.
func ValidateCustomAlias(alias string) error {
	if err := validation.Validate(alias,
		validation.Required.Error("alias is required"),
		validation.Length(MinCustomAliasLength, MaxCustomAliasLength).
			Error(fmt.Sprintf("alias must be between %d and %d characters", MinCustomAliasLength, MaxCustomAliasLength)),
		validation.Match(aliasRegex).Error("alias may only contain letters, numbers, hyphens and underscores"),
	); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAlias, err.Error())
	}

	if IsReservedAlias(alias) {
		return fmt.Errorf("%w: %q is reserved and cannot be used", ErrReservedAlias, alias)
	}

	return nil
}
