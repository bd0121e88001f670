package plan

import (
	"errors"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"math/big"
	"strings"
)

var (
	// ErrBadExpression is returned when a discriminant is not an integer constant.
	ErrBadExpression = errors.New("malformed discriminant expression")
	// ErrIndexOutOfRange is returned when an explicit discriminant does not fit
	// the representation width.
	ErrIndexOutOfRange = errors.New("discriminant out of range")
)

// evalInteger evaluates expr as an untyped Go constant expression in the
// universe scope and returns its exact integer value.
func evalInteger(expr string) (*big.Int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrBadExpression)
	}

	tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBadExpression, expr, err)
	}

	if tv.Value == nil {
		return nil, fmt.Errorf("%w %q: not a constant", ErrBadExpression, expr)
	}

	v := constant.ToInt(tv.Value)
	if v.Kind() != constant.Int {
		return nil, fmt.Errorf("%w %q: not an integer", ErrBadExpression, expr)
	}

	n, ok := new(big.Int).SetString(v.ExactString(), 10)
	if !ok {
		return nil, fmt.Errorf("%w %q: not an integer", ErrBadExpression, expr)
	}

	return n, nil
}
