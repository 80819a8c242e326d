package lexer

import (
	"testing"

	"github.com/mylang-lang/mylang/internal/errors"
)

func TestBasicTokens(t *testing.T) {
	input := `def main(x of int) of bool
	print("Hello, \"world\"!", 'c');
end`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenDef, "def"},
		{TokenIdentifier, "main"},
		{TokenLParen, "("},
		{TokenIdentifier, "x"},
		{TokenOf, "of"},
		{TokenIntType, "int"},
		{TokenRParen, ")"},
		{TokenOf, "of"},
		{TokenBoolType, "bool"},
		{TokenIdentifier, "print"},
		{TokenLParen, "("},
		{TokenString, `"Hello, \"world\"!"`},
		{TokenComma, ","},
		{TokenChar, "'c'"},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenEnd, "end"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `def end if then else while until break begin array of true false
bool byte int uint long ulong char string ending _if`

	expected := []TokenType{
		TokenDef, TokenEnd, TokenIf, TokenThen, TokenElse, TokenWhile, TokenUntil,
		TokenBreak, TokenBegin, TokenArray, TokenOf, TokenTrue, TokenFalse,
		TokenBoolType, TokenByteType, TokenIntType, TokenUintType, TokenLongType,
		TokenUlongType, TokenCharType, TokenStringType,
		TokenIdentifier, TokenIdentifier, TokenEOF,
	}

	l := New(input)

	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, want, tok.Type, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % == != < <= > >= && || & | ^ << >> ! ~ = ( ) [ ] { } , ; .. :`

	expected := []TokenType{
		TokenPlus, TokenMinus, TokenMul, TokenDiv, TokenMod,
		TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe,
		TokenAnd, TokenOr, TokenBitAnd, TokenBitOr, TokenBitXor,
		TokenShl, TokenShr, TokenNot, TokenBitNot, TokenAssign,
		TokenLParen, TokenRParen, TokenLBracket, TokenRBracket,
		TokenLBrace, TokenRBrace, TokenComma, TokenSemicolon,
		TokenDotDot, TokenColon, TokenEOF,
	}

	tokens, err := Tokenize("ops.ml", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("tokens[%d] = %s, want %s", i, tokens[i].Type, want)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected []Token
	}{
		{"42", []Token{{Type: TokenDec, Literal: "42"}}},
		{"0x1fA", []Token{{Type: TokenHex, Literal: "0x1fA"}}},
		{"0XFF", []Token{{Type: TokenHex, Literal: "0XFF"}}},
		{"0b1010", []Token{{Type: TokenBits, Literal: "0b1010"}}},
		{"0B1", []Token{{Type: TokenBits, Literal: "0B1"}}},
		{"0xg", []Token{{Type: TokenDec, Literal: "0"}, {Type: TokenIdentifier, Literal: "xg"}}},
		{"0b2", []Token{{Type: TokenDec, Literal: "0"}, {Type: TokenIdentifier, Literal: "b2"}}},
		{"12ab", []Token{{Type: TokenDec, Literal: "12"}, {Type: TokenIdentifier, Literal: "ab"}}},
		{"1..5", []Token{{Type: TokenDec, Literal: "1"}, {Type: TokenDotDot, Literal: ".."}, {Type: TokenDec, Literal: "5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize("", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tokens = tokens[:len(tokens)-1] // drop EOF
			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, want := range tt.expected {
				if tokens[i].Type != want.Type || tokens[i].Literal != want.Literal {
					t.Errorf("tokens[%d] = %s %q, want %s %q",
						i, tokens[i].Type, tokens[i].Literal, want.Type, want.Literal)
				}
			}
		})
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "a // comment until end of line\n// whole line\nb / c"

	tokens, err := Tokenize("", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "/", "c", ""}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, lit := range want {
		if tokens[i].Literal != lit {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i].Literal, lit)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	input := "def f()\n  x = 1;\nend"

	tokens, err := Tokenize("pos.ml", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		index  int
		line   int
		column int
		offset int
	}{
		{0, 1, 1, 0},  // def
		{1, 1, 5, 4},  // f
		{4, 2, 3, 10}, // x
		{5, 2, 5, 12}, // =
		{8, 3, 1, 17}, // end
	}

	for _, tt := range tests {
		pos := tokens[tt.index].Pos()
		if pos.Line != tt.line || pos.Column != tt.column || pos.Offset != tt.offset {
			t.Errorf("token %d (%q) at %d:%d@%d, want %d:%d@%d", tt.index, tokens[tt.index].Literal,
				pos.Line, pos.Column, pos.Offset, tt.line, tt.column, tt.offset)
		}
		if pos.Filename != "pos.ml" {
			t.Errorf("filename = %q", pos.Filename)
		}
	}

	if end := tokens[0].Span.End; end.Offset != 3 || end.Column != 4 {
		t.Errorf("def span end = %d:%d@%d", end.Line, end.Column, end.Offset)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		code       string
		line       int
		column     int
		incomplete bool
	}{
		{"unterminated string", `x = "abc`, errors.CodeUnterminatedString, 1, 5, true},
		{"unterminated escape", `"abc\`, errors.CodeUnterminatedString, 1, 1, true},
		{"unterminated char", "'a", errors.CodeUnterminatedChar, 1, 1, true},
		{"char too long", "'ab'", errors.CodeUnterminatedChar, 1, 1, false},
		{"empty char", "''", errors.CodeInvalidLiteral, 1, 1, false},
		{"invalid character", "a\n  @", errors.CodeInvalidChar, 2, 3, false},
		{"single dot", "a.b", errors.CodeInvalidChar, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("err.ml", tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			lexErr, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if lexErr.Kind != errors.KindLex {
				t.Errorf("Kind = %s, want %s", lexErr.Kind, errors.KindLex)
			}
			if lexErr.Code != tt.code {
				t.Errorf("Code = %s, want %s", lexErr.Code, tt.code)
			}
			if lexErr.Pos.Line != tt.line || lexErr.Pos.Column != tt.column {
				t.Errorf("Pos = %d:%d, want %d:%d", lexErr.Pos.Line, lexErr.Pos.Column, tt.line, tt.column)
			}
			if lexErr.Incomplete != tt.incomplete {
				t.Errorf("Incomplete = %v, want %v", lexErr.Incomplete, tt.incomplete)
			}
		})
	}
}

func TestErrorIsSticky(t *testing.T) {
	l := New("@ a")

	if tok := l.NextToken(); tok.Type != TokenError {
		t.Fatalf("expected ERROR, got %s", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != TokenError {
		t.Fatalf("expected ERROR after failure, got %s", tok.Type)
	}
	if l.Err() == nil {
		t.Fatal("Err() should report the failure")
	}
}

func TestEOFRepeats(t *testing.T) {
	l := New("  // only a comment")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok.Type)
		}
	}
	if l.Err() != nil {
		t.Fatalf("unexpected error: %v", l.Err())
	}
}

func TestUnicodeCharLiteral(t *testing.T) {
	tokens, err := Tokenize("", "'é'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Type != TokenChar || tokens[0].Literal != "'é'" {
		t.Errorf("got %s %q", tokens[0].Type, tokens[0].Literal)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tt   TokenType
		want string
	}{
		{TokenSemicolon, "';'"},
		{TokenEnd, "'end'"},
		{TokenShl, "'<<'"},
		{TokenIdentifier, "identifier"},
		{TokenHex, "hex literal"},
		{TokenEOF, "end of input"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tt.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupOperator(t *testing.T) {
	tests := map[string]TokenType{
		"<<":  TokenShl,
		"=":   TokenAssign,
		";":   TokenSemicolon,
		"@":   TokenError,
		"":    TokenError,
		"<<<": TokenError,
	}
	for op, want := range tests {
		if got := LookupOperator(op); got != want {
			t.Errorf("LookupOperator(%q) = %s, want %s", op, got, want)
		}
	}
}
