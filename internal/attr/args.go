package attr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"enum-generator/internal/model"
)

// ErrMalformedArgs is returned by ParseArgs for unterminated quotes or
// dangling separators.
var ErrMalformedArgs = errors.New("malformed annotation arguments")

// ParseArgs parses the argument list of a directive or a scalar YAML
// annotation value.
//
// Arguments are separated by whitespace or commas. Each argument is either a
// bare key or key=value, where value is bare or a Go-quoted string:
//
//	value="two words" index=2
//	Display, Serialize
//	index="1 << 4"
func ParseArgs(s string) ([]model.Arg, error) {
	var args []model.Arg

	rest := s
	for {
		rest = strings.TrimLeft(rest, " \t,")
		if rest == "" {
			return args, nil
		}

		end := strings.IndexAny(rest, " \t,=")
		if end == 0 {
			return nil, fmt.Errorf("%w: missing key before %q", ErrMalformedArgs, rest)
		}

		if end < 0 {
			args = append(args, model.Arg{Key: rest})
			return args, nil
		}

		key := rest[:end]
		rest = rest[end:]

		if rest[0] != '=' {
			args = append(args, model.Arg{Key: key})
			continue
		}

		rest = rest[1:]

		value, remaining, err := parseValue(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformedArgs, key, err)
		}

		args = append(args, model.Arg{Key: key, Value: value, HasValue: true})
		rest = remaining
	}
}

func parseValue(s string) (string, string, error) {
	if s == "" {
		return "", "", nil
	}

	if s[0] == '"' || s[0] == '`' {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", "", fmt.Errorf("unterminated quoted value %s", s)
		}

		value, err := strconv.Unquote(quoted)
		if err != nil {
			return "", "", err
		}

		return value, s[len(quoted):], nil
	}

	end := strings.IndexAny(s, " \t,")
	if end < 0 {
		return s, "", nil
	}

	return s[:end], s[end:], nil
}
