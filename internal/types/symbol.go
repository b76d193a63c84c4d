package types

import "strings"

// SymbolInfo describes an instrument by its base and quote currency.
type SymbolInfo struct {
	Name  string `json:"name" yaml:"name"`
	Base  string `json:"base" yaml:"base"`
	Quote string `json:"quote" yaml:"quote"`
}

// ParseSymbolInfo derives base and quote from a symbol name.
// Six-letter pairs such as EURUSD split in the middle; BTC/USD and BTC-USD
// split on the separator. Anything else is reported as its own base with
// an empty quote. The name itself is kept as given.
func ParseSymbolInfo(name string) SymbolInfo {
	info := SymbolInfo{Name: name, Base: name, Quote: ""}

	if i := strings.IndexAny(name, "/-"); i > 0 && i < len(name)-1 {
		info.Base = name[:i]
		info.Quote = name[i+1:]

		return info
	}

	if len(name) == 6 && isLetters(name) {
		info.Base = name[:3]
		info.Quote = name[3:]
	}

	return info
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}

	return true
}
