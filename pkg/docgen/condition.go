package docgen

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// conditionKind is the dynamic type of an evaluated condition operand.
type conditionKind int

const (
	kindNull conditionKind = iota
	kindBool
	kindInt
	kindString
)

func (k conditionKind) String() string {
	switch k {
	case kindNull:
		return "null"
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindString:
		return "string"
	default:
		return "unknown"
	}
}

// conditionToken is the result of evaluating one operand.
type conditionToken struct {
	kind conditionKind
	b    bool
	i    int64
	s    string
}

func nullToken() conditionToken           { return conditionToken{kind: kindNull} }
func boolToken(v bool) conditionToken     { return conditionToken{kind: kindBool, b: v} }
func intToken(v int64) conditionToken     { return conditionToken{kind: kindInt, i: v} }
func stringToken(v string) conditionToken { return conditionToken{kind: kindString, s: v} }

// truthy coerces an operand to a boolean: null, the empty string, zero and
// false are false; everything else is true.
func (t conditionToken) truthy() bool {
	switch t.kind {
	case kindNull:
		return false
	case kindBool:
		return t.b
	case kindInt:
		return t.i != 0
	default:
		return t.s != ""
	}
}

// equal is structural equality: operands of different dynamic types are
// never equal, two nulls always are.
func (t conditionToken) equal(other conditionToken) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case kindNull:
		return true
	case kindBool:
		return t.b == other.b
	case kindInt:
		return t.i == other.i
	default:
		return t.s == other.s
	}
}

// conditionOpRegex matches the first comparison operator run in a condition.
// The two-character operators come first so "<=" is not split into "<", "=".
var conditionOpRegex = regexp.MustCompile(`==|!=|<=|>=|<|>`)

// EvaluateCondition evaluates the boolean mini-grammar used by visibility
// tags: a binary comparison, a negation, or a single truthy-tested operand.
// Field references resolve against the given binding scope; unresolved
// fields evaluate to null so conditions can safely mention absent data.
func EvaluateCondition(expr string, scope *Scope) (bool, error) {
	expr = strings.TrimSpace(expr)

	if loc := conditionOpRegex.FindStringIndex(expr); loc != nil {
		op := expr[loc[0]:loc[1]]
		left := strings.TrimSpace(expr[:loc[0]])
		right := strings.TrimSpace(expr[loc[1]:])
		if left == "" {
			return false, NewConditionError(expr, "left operand is null or empty")
		}
		if right == "" {
			return false, NewConditionError(expr, "right operand is null or empty")
		}

		lt, err := evaluateOperand(left, scope)
		if err != nil {
			return false, err
		}
		rt, err := evaluateOperand(right, scope)
		if err != nil {
			return false, err
		}

		switch op {
		case "==":
			return lt.equal(rt), nil
		case "!=":
			return !lt.equal(rt), nil
		}

		// Ordering operators are defined for integers only
		if lt.kind != kindInt || rt.kind != kindInt {
			return false, NewConditionError(expr,
				fmt.Sprintf("operator %q is not applicable to operands of type %s and %s", op, lt.kind, rt.kind))
		}
		switch op {
		case "<":
			return lt.i < rt.i, nil
		case "<=":
			return lt.i <= rt.i, nil
		case ">":
			return lt.i > rt.i, nil
		case ">=":
			return lt.i >= rt.i, nil
		}
		return false, NewConditionError(expr, "unknown operator "+op)
	}

	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		inner, err := EvaluateCondition(strings.TrimSpace(rest), scope)
		if err != nil {
			return false, err
		}
		return !inner, nil
	}

	tok, err := evaluateOperand(expr, scope)
	if err != nil {
		return false, err
	}
	return tok.truthy(), nil
}

// evaluateOperand resolves one side of a condition: the null literal, a data
// field, an integer or boolean literal, a quoted string, and finally null for
// anything unresolved.
func evaluateOperand(operand string, scope *Scope) (conditionToken, error) {
	operand = strings.TrimSpace(operand)

	if operand == "" || strings.EqualFold(operand, "null") {
		return nullToken(), nil
	}

	if value, found, _ := scope.Lookup(operand); found {
		return coerceValue(value), nil
	}

	if i, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return intToken(i), nil
	}

	if b, err := strconv.ParseBool(operand); err == nil {
		return boolToken(b), nil
	}

	if len(operand) >= 2 {
		first, last := operand[0], operand[len(operand)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return stringToken(operand[1 : len(operand)-1]), nil
		}
	}

	// Unresolved field: evaluates to null rather than failing, so a
	// condition can reference data that is simply absent
	return nullToken(), nil
}

// coerceValue maps a resolved data value onto the operand type system by its
// native type.
func coerceValue(value interface{}) conditionToken {
	switch v := value.(type) {
	case nil:
		return nullToken()
	case bool:
		return boolToken(v)
	case int:
		return intToken(int64(v))
	case int32:
		return intToken(int64(v))
	case int64:
		return intToken(v)
	case float64:
		// JSON numbers arrive as float64; whole values compare as integers
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return intToken(int64(v))
		}
		return stringToken(FormatValue(v))
	case string:
		return stringToken(v)
	default:
		return stringToken(FormatValue(v))
	}
}
