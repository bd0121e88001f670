// Package repr decides the integer representation type shared by all
// discriminants of one union.
package repr

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// Width is a fixed-width integer representation.
type Width int

const (
	I32 Width = iota // i32
	I8
	I16
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	Isize
	Usize
)

// PlatformAlias is the hint token that maps to U32.
const PlatformAlias = "C"

var (
	// ErrUnknownWidth is returned when a token is not a representation width.
	ErrUnknownWidth = errors.New("unknown representation width")
	// ErrConflictingWidths is returned when two different explicit widths are hinted.
	ErrConflictingWidths = errors.New("conflicting representation widths")
)

type widthInfo struct {
	token  string
	goType string
	bits   uint
	signed bool
}

var widths = map[Width]widthInfo{
	I8:    {token: "i8", goType: "int8", bits: 8, signed: true},
	I16:   {token: "i16", goType: "int16", bits: 16, signed: true},
	I32:   {token: "i32", goType: "int32", bits: 32, signed: true},
	I64:   {token: "i64", goType: "int64", bits: 64, signed: true},
	I128:  {token: "i128", bits: 128, signed: true},
	U8:    {token: "u8", goType: "uint8", bits: 8},
	U16:   {token: "u16", goType: "uint16", bits: 16},
	U32:   {token: "u32", goType: "uint32", bits: 32},
	U64:   {token: "u64", goType: "uint64", bits: 64},
	U128:  {token: "u128", bits: 128},
	Isize: {token: "isize", goType: "int", bits: 64, signed: true},
	Usize: {token: "usize", goType: "uint", bits: 64},
}

// ParseWidth parses a hint token such as "u8" or "isize". Go type names
// ("int8", "uint") are accepted as synonyms.
func ParseWidth(token string) (Width, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for w, info := range widths {
		if t == info.token || (info.goType != "" && t == info.goType) {
			return w, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownWidth, token)
}

// HintTokens returns every width token in ascending order of width, signed
// before unsigned, followed by the platform alias.
func HintTokens() []string {
	ws := make([]Width, 0, len(widths))
	for w := range widths {
		ws = append(ws, w)
	}

	slices.SortFunc(ws, func(a, b Width) int {
		ia, ib := widths[a], widths[b]
		if ia.signed != ib.signed {
			if ia.signed {
				return -1
			}

			return 1
		}

		if ia.bits != ib.bits {
			return int(ia.bits) - int(ib.bits)
		}

		return strings.Compare(ia.token, ib.token)
	})

	tokens := make([]string, 0, len(ws)+1)
	for _, w := range ws {
		tokens = append(tokens, widths[w].token)
	}

	return append(tokens, PlatformAlias)
}

// IsHintToken reports whether token is a width or the platform alias.
func IsHintToken(token string) bool {
	if token == PlatformAlias {
		return true
	}

	_, err := ParseWidth(token)

	return err == nil
}

// String returns the hint token, e.g. "i32".
func (w Width) String() string {
	if info, ok := widths[w]; ok {
		return info.token
	}

	return fmt.Sprintf("Width(%d)", int(w))
}

// GoType returns the Go integer type name. It is empty for widths that have
// no native Go integer type (i128, u128).
func (w Width) GoType() string {
	return widths[w].goType
}

// Bits returns the width in bits. Platform widths report 64.
func (w Width) Bits() uint {
	return widths[w].bits
}

// Signed reports whether the width is signed.
func (w Width) Signed() bool {
	return widths[w].signed
}

// Min returns the smallest representable value.
func (w Width) Min() *big.Int {
	if !w.Signed() {
		return big.NewInt(0)
	}

	m := new(big.Int).Lsh(big.NewInt(1), w.Bits()-1)

	return m.Neg(m)
}

// Max returns the largest representable value.
func (w Width) Max() *big.Int {
	shift := w.Bits()
	if w.Signed() {
		shift--
	}

	m := new(big.Int).Lsh(big.NewInt(1), shift)

	return m.Sub(m, big.NewInt(1))
}

// Contains reports whether v is representable in w.
func (w Width) Contains(v *big.Int) bool {
	return v.Cmp(w.Min()) >= 0 && v.Cmp(w.Max()) <= 0
}
