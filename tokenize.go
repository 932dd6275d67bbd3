package datemath

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Operator is the action an Operation applies to a time.
type Operator byte

const (
	Add      Operator = '+'
	Subtract Operator = '-'
	Round    Operator = '/'
)

func (o Operator) String() string {
	return string(o)
}

// Operation is one step of an expression suffix such as "-5d" or "/M".
// Amount is always 1 for Round.
type Operation struct {
	Op     Operator
	Amount int
	Unit   Unit
}

func (o Operation) String() string {
	if o.Op == Round {
		return fmt.Sprintf("/%s", o.Unit)
	}
	return fmt.Sprintf("%c%d%s", o.Op, o.Amount, o.Unit)
}

// Apply evaluates the operation against t. roundUp and weekStart only
// matter for Round.
func (o Operation) Apply(t time.Time, roundUp bool, weekStart time.Weekday) (time.Time, error) {
	switch o.Op {
	case Add:
		return shift(t, o.Unit, o.Amount)
	case Subtract:
		return shift(t, o.Unit, -o.Amount)
	case Round:
		return round(t, o.Unit, roundUp, weekStart)
	}
	return time.Time{}, errors.Wrapf(ErrOperator, "%q", byte(o.Op))
}

// Tokenize splits an expression suffix (the part after the anchor) into
// operations. An empty suffix yields no operations.
func Tokenize(suffix string) ([]Operation, bool) {
	ops, err := tokenize(suffix)
	return ops, err == nil
}

func tokenize(s string) ([]Operation, error) {
	var ops []Operation
	for i := 0; i < len(s); {
		op := Operator(s[i])
		if op != Add && op != Subtract && op != Round {
			return nil, errors.Wrapf(ErrOperator, "%q at offset %d", s[i], i)
		}
		i++

		amount := 1
		if op != Round {
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if j == i {
				return nil, errors.Wrapf(ErrAmount, "missing after %q at offset %d", byte(op), i-1)
			}
			n, err := strconv.Atoi(s[i:j])
			if err != nil {
				return nil, errors.Wrap(ErrAmount, err.Error())
			}
			amount = n
			i = j
		}

		unit, width, ok := scanUnit(s[i:])
		if !ok {
			return nil, errors.Wrapf(ErrUnit, "%q at offset %d", s[i:], i)
		}
		i += width

		ops = append(ops, Operation{Op: op, Amount: amount, Unit: unit})
	}
	return ops, nil
}

// scanUnit reads the unit at the start of s. "ms" must win over "m".
func scanUnit(s string) (Unit, int, bool) {
	if len(s) >= 2 && s[:2] == "ms" {
		return UnitMillisecond, 2, true
	}
	if len(s) == 0 {
		return 0, 0, false
	}
	u, ok := ParseUnit(s[:1])
	return u, 1, ok
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
