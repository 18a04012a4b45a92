package vm_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/evanlindqvist/golox/vm"
)

func init() { logrus.SetLevel(logrus.DebugLevel) }

type TestPair struct{ input, output string }

func assertEval(t *testing.T, errSubstr string, pairs ...TestPair) {
	t.Helper()
	vm_ := vm.NewVM()
	for _, pair := range pairs {
		val, err := vm_.Interpret(pair.input)
		switch {
		case errSubstr == "":
			assert.Nil(t, err)
		case err != nil:
			assert.ErrorContains(t, err, errSubstr)
			return
		}
		valStr := fmt.Sprintf("%s", val)
		assert.Equal(t, pair.output, valStr)
	}
	assert.Empty(t, errSubstr, "a successful test must have an empty errSubstr")
}

func TestArithmetic(t *testing.T) {
	assertEval(t, "",
		TestPair{"2 + 2", "4"},
		TestPair{"11.4 + 5.14 / 19198.10", "11.400267734827926"},
		TestPair{"-6 * (-4 + -3)", "42"},
		TestPair{
			heredoc.Doc(`
				4 / 1 - 4 / 3 + 4 / 5 - 4 / 7 + 4 / 9 - 4 / 11
					+ 4 / 13 - 4 / 15 + 4 / 17 - 4 / 19 + 4 / 21 - 4 / 23
			`),
			"3.058402765927333",
		},
		TestPair{"1 / 0", "inf"},
		TestPair{"-1 / 0", "-inf"},
	)
}

func TestComparisonAndEquality(t *testing.T) {
	assertEval(t, "",
		TestPair{"-6 * (-4 + -3) == 6 * 4 + 2 * ((((9))))", "true"},
		TestPair{"1 < 2", "true"},
		TestPair{"2 <= 2", "true"},
		TestPair{"3 > 2", "true"},
		TestPair{"2 >= 3", "false"},
		TestPair{"1 != 2", "true"},
		TestPair{"nil == nil", "true"},
		TestPair{"nil == false", "false"},
		TestPair{`"a" == "a"`, "true"},
	)
}

func TestLiteralsAndLogic(t *testing.T) {
	assertEval(t, "",
		TestPair{"true", "true"},
		TestPair{"false", "false"},
		TestPair{"nil", "nil"},
		TestPair{"!nil", "true"},
		TestPair{"!!nil", "false"},
		TestPair{"!0", "false"},
	)
}

func TestStrings(t *testing.T) {
	assertEval(t, "",
		TestPair{`"foo" + "bar"`, "foobar"},
		TestPair{`"a" + "b" + "c"`, "abc"},
	)
}

func TestCompileErrors(t *testing.T) {
	assertEval(t, "Expect expression.", TestPair{"", ""})
	assertEval(t, "Expect expression.", TestPair{"(1 +)", ""})
	assertEval(t, "Expect ')' after expression.", TestPair{"(1 + 2", ""})
	assertEval(t, "Unterminated string.", TestPair{`"unterminated`, ""})
	assertEval(t, "Unexpected character.", TestPair{"1 @ 2", ""})
}

func TestRuntimeErrors(t *testing.T) {
	assertEval(t, "Operand must be a number.", TestPair{`-"nope"`, ""})
	assertEval(t, "Operands must be two numbers or two strings.", TestPair{`1 + "two"`, ""})
	assertEval(t, "Operand must be a number.", TestPair{`1 < "two"`, ""})
}

// manyConsts builds an expression summing n distinct numeric literals,
// each landing in the constant pool exactly once.
func manyConsts(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%d.0", i)
	}
	return b.String()
}

func TestTooManyConstants(t *testing.T) {
	assertEval(t, "", TestPair{manyConsts(256), "32640"})
	assertEval(t, "Too many constants in one chunk.", TestPair{manyConsts(257), ""})
}
