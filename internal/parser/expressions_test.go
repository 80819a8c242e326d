package parser

import (
	"testing"

	"github.com/mylang-lang/mylang/internal/ast"
)

// TestOperatorPrecedence tests the complete operator precedence hierarchy
func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"product over sum", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"sum is left associative", "a - b - c", "((a - b) - c)"},
		{"product is left associative", "a / b * c", "((a / b) * c)"},
		{"and over or", "a || b && c", "(a || (b && c))"},
		{"bitwise layering", "a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"bitwise and over equality", "a & b == c", "(a & (b == c))"},
		{"comparison over equality", "a == b < c", "(a == (b < c))"},
		{"shift over comparison", "a < b << c", "(a < (b << c))"},
		{"sum over shift", "a << b + c", "(a << (b + c))"},
		{"modulo with product", "a + b * c % d", "(a + ((b * c) % d))"},
		{"equality is left associative", "a == b != c", "((a == b) != c)"},
		{"logical over bitwise", "a && b | c", "(a && (b | c))"},
		{"prefix over product", "-a * b", "((-a) * b)"},
		{"not over and", "!a && b", "((!a) && b)"},
		{"stacked prefix", "~-x", "(~(-x))"},
		{"postfix over prefix", "-f(x)", "(-f(x))"},
		{"parentheses", "(a + b) * c", "(((a + b)) * c)"},
		{"full ladder", "a = b || c && d | e ^ f & g == h < i << j + k * -l",
			"(a = (b || (c && (d | (e ^ (f & (g == (h < (i << (j + (k * (-l))))))))))))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error: %v", tt.input, err)
			}
			if got := expr.String(); got != tt.expected {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAssignment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a = b", "(a = b)"},
		{"a = b = c", "(a = (b = c))"},
		{"a = b || c", "(a = (b || c))"},
		{"x[i] = f(y) + 1", "(x[i] = (f(y) + 1))"},
		{"f((a = 1))", "f(((a = 1)))"},
		{"f(a = 1, b)", "f((a = 1), b)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.String(); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}

	expr, _ := ParseExpr("a = b = c")
	outer, ok := expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", expr)
	}
	if _, ok := outer.Value.(*ast.AssignExpr); !ok {
		t.Errorf("assignment should nest on the right, got value %T", outer.Value)
	}
}

func TestPostfixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"f()", "f()"},
		{"f(x)[0]", "f(x)[0]"},
		{"a[1..2, 3]", "a[1..2, 3]"},
		{"a[]", "a[]"},
		{"f()()", "f()()"},
		{"m[i][j]", "m[i][j]"},
		{"(f)(x)", "(f)(x)"},
		{"g(a + b, -c)", "g((a + b), (-c))"},
		{"s[i + 1..n - 1]", "s[(i + 1)..(n - 1)]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.String(); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCallOfSlice(t *testing.T) {
	expr, err := ParseExpr("f(x)[0]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slice, ok := expr.(*ast.SliceExpr)
	if !ok {
		t.Fatalf("expected *ast.SliceExpr, got %T", expr)
	}
	call, ok := slice.X.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected slice of *ast.CallExpr, got %T", slice.X)
	}
	if call.Fun.String() != "f" || len(call.Args) != 1 {
		t.Errorf("unexpected call %s", call)
	}
	if len(slice.Ranges) != 1 || slice.Ranges[0].End != nil {
		t.Errorf("expected a single index range, got %v", slice.Ranges)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.LiteralKind
	}{
		{"true", ast.LiteralBool},
		{"false", ast.LiteralBool},
		{`"a \"q\""`, ast.LiteralStr},
		{"'c'", ast.LiteralChar},
		{"0x1F", ast.LiteralHex},
		{"0b1010", ast.LiteralBits},
		{"42", ast.LiteralDec},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			lit, ok := expr.(*ast.Literal)
			if !ok {
				t.Fatalf("expected *ast.Literal, got %T", expr)
			}
			if lit.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", lit.Kind, tt.kind)
			}
			if lit.Raw != tt.input {
				t.Errorf("raw = %q, want %q", lit.Raw, tt.input)
			}
		})
	}
}

func TestExpressionSpans(t *testing.T) {
	expr, err := ParseExpr("a + f(b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin := expr.(*ast.BinaryExpr)
	if bin.Span.Start.Offset != 0 || bin.Span.End.Offset != 8 {
		t.Errorf("binary span = %d..%d, want 0..8", bin.Span.Start.Offset, bin.Span.End.Offset)
	}
	call := bin.Y.(*ast.CallExpr)
	if call.Span.Start.Offset != 4 || call.Span.Start.Column != 5 {
		t.Errorf("call starts at offset %d column %d, want 4 and 5", call.Span.Start.Offset, call.Span.Start.Column)
	}
}
