package fieldtype

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

// Field rules are single-field CEL constraints an administrator may attach to
// a definition, e.g. `value > 0.0` on a number field or `size(value) <= 280`
// on text. The expression sees exactly one variable, `value`; cross-field
// references are not expressible by construction.

var newRuleEnv = func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("value", cel.DynType))
}

var ruleProgramCache sync.Map

// CompileRule checks an expression at field-definition time so a broken rule
// is rejected before it can block every future submission.
func CompileRule(expr string) error {
	_, err := loadOrCompileRuleProgram(expr)
	return err
}

// EvalRule evaluates a compiled rule against one canonical value. Number
// canonicals are handed to CEL as doubles so numeric comparisons read
// naturally in expressions.
func EvalRule(kind Kind, expr string, canonical any) (bool, error) {
	program, err := loadOrCompileRuleProgram(expr)
	if err != nil {
		return false, err
	}

	value := canonical
	if kind == Number {
		s, ok := canonical.(string)
		if !ok {
			return false, errors.New("fieldtype: number canonical value is not a string")
		}
		f, parseErr := strconv.ParseFloat(s, 64)
		if parseErr != nil {
			return false, parseErr
		}
		value = f
	}

	out, _, err := program.Eval(map[string]any{"value": value})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, errors.New("fieldtype: rule did not evaluate to bool")
	}
	return ok, nil
}

func loadOrCompileRuleProgram(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("fieldtype: rule expression required")
	}
	if cached, ok := ruleProgramCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}
	env, err := newRuleEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.New("fieldtype: rule must evaluate to bool")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	ruleProgramCache.Store(expr, program)
	return program, nil
}
