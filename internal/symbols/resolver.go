package symbols

import "strings"

// AssetClass tags a raw ticker with the instrument family it belongs to.
// The set is closed; anything unrecognized resolves as ClassGeneric.
type AssetClass int

const (
	ClassGeneric AssetClass = iota
	ClassForex
	ClassFutures
)

// String returns the canonical lowercase name of the class.
func (c AssetClass) String() string {
	switch c {
	case ClassForex:
		return "forex"
	case ClassFutures:
		return "futures"
	default:
		return "generic"
	}
}

// ParseAssetClass maps a free-form tag to an AssetClass. Unknown values fall
// back to ClassGeneric so a misspelled tag degrades to no-suffix behaviour
// instead of failing.
func ParseAssetClass(tag string) AssetClass {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "forex", "fx", "currency":
		return ClassForex
	case "futures", "future":
		return ClassFutures
	default:
		return ClassGeneric
	}
}

// Resolve builds the provider query symbol for a raw ticker.
// Examples:
//
//	EURUSD  forex   -> EURUSD=X
//	GC      futures -> GC=F
//	AAPL    generic -> AAPL
//
// Pure and deterministic: no I/O, no failure modes. Resolving an already
// resolved symbol appends again; callers resolve each raw ticker once.
func Resolve(rawSymbol string, class AssetClass) string {
	sym := strings.ToUpper(strings.TrimSpace(rawSymbol))
	switch class {
	case ClassForex:
		return sym + "=X"
	case ClassFutures:
		return sym + "=F"
	default:
		return sym
	}
}
