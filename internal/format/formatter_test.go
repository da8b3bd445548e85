package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CerenB/miss-hit/compiler/parser"
)

func format(t *testing.T, input string, config *Config) string {
	t.Helper()
	result, err := New(config).Format(input, "test.m")
	if err != nil {
		t.Fatalf("Formatting failed: %v", err)
	}
	return result
}

func TestFormatterFunction(t *testing.T) {
	input := `function r = scale(x, k)
% scale x by k
if k > 0
r = x * k
else
r = -x;
end
end`

	expected := `function r = scale(x, k)
    if (k > 0)
        r = (x * k);
    else
        r = (-x);
    end
end
`

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterScript(t *testing.T) {
	input := "hold on\n!ls -la\ndisp 'a b'\nx = [1 2; 3 4]';\nfor i = 1:2:9, y(i) = i; end\n"

	expected := `hold on
!ls -la
disp 'a b'
x = [1, 2; 3, 4]';
for i = 1:2:9
    y(i) = i;
end
`

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterClass(t *testing.T) {
	input := `classdef (Sealed) Point < handle
properties
X (1,1) double = 0
end
methods
function obj = Point(x)
obj.X = x;
end
end
end`

	expected := `classdef (Sealed) Point < handle
    properties
        X (1,1) double = 0
    end
    methods
        function obj = Point(x)
            obj.X = x;
        end
    end
end
`

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterSwitchAndTry(t *testing.T) {
	input := `switch s
case 'a'
y = 1;
otherwise
y = 2;
end
try
z = f();
catch err
rethrow(err);
end`

	expected := `switch s
    case 'a'
        y = 1;
    otherwise
        y = 2;
end
try
    z = f();
catch err
    rethrow(err);
end
`

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterConfig(t *testing.T) {
	config := &Config{IndentSize: 2, Semicolons: false}
	input := "for i = 1:3\nx(i) = i;\nend\n"
	expected := "for i = 1:3\n  x(i) = i\nend\n"

	if result := format(t, input, config); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"2^-3^2", "((2 ^ -3) ^ 2)"},
		{"2^(-3)", "(2 ^ (-3))"},
		{"v(end-1:end)", "v((end - 1):end)"},
		{"v(:, 1)", "v(:, 1)"},
		{"@(v) v + 1", "(@(v) (v + 1))"},
		{`{1, 'it''s', "q""r"}`, `{1, 'it''s', "q""r"}`},
		{"-y'", "(-y')"},
		{"('abc')'", "('abc')'"},
		{`("abc").'`, `("abc").'`},
		{"a:b:c", "(a:b:c)"},
		{"s.(f)(2)", "s.(f)(2)"},
		{"obj@Base(1)", "obj@Base(1)"},
		{"?pkg.C", "?pkg.C"},
		{"@sin", "@sin"},
		{"~a & b | c", "(((~a) & b) | c)"},
		{"[]", "[]"},
		{"c{end}.name", "c{end}.name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := format(t, "x = "+tt.input+";\n", DefaultConfig())
			if expected := "x = " + tt.expected + ";\n"; result != expected {
				t.Errorf("Expected %q, got %q", expected, result)
			}
		})
	}
}

func TestFormatterAbstractMethods(t *testing.T) {
	input := `classdef (Abstract) Shape
    methods (Abstract)
        function r = area(obj)
        draw(obj)
    end
end
`

	expected := `classdef (Abstract) Shape
    methods (Abstract)
        r = area(obj)
        draw(obj)
    end
end
`

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

func TestFormatterUnterminatedFunctions(t *testing.T) {
	input := "function a()\nx = 1;\nfunction b()\ny = 2;\n"
	expected := "function a\n    x = 1;\n\nfunction b\n    y = 2;\n"

	if result := format(t, input, DefaultConfig()); result != expected {
		t.Errorf("Format mismatch.\nExpected:\n%s\nGot:\n%s", expected, result)
	}
}

// roundTripCorpus holds programs whose rendering must parse back to the
// same tree
var roundTripCorpus = map[string]string{
	"script": `
x = 1;
y = x + 2 * 3 - 4 / 5;
z = -x^2 + 2^-3^2 + 2^-~3;
m = [1 2 3; 4 5 6]';
c = {1, 'two', "three"; [], {}, @sin};
v = m(end, :) .* m(1, end-1:end);
s.a.b(2).c = v';
s.(name) = a < b & b <= c | ~d || e && f ~= g;
[a, ~, b] = size(zeros(2, 3, 4));
[~, idx] = max(v);
t = ('it''s')';
u = ['ab'; 'cd']';
`,
	"control": `
for i = 1:10
    if mod(i, 2) == 0
        continue
    elseif i > 7
        break
    else
        disp(i);
    end
end
for k = [1 2 3]
end
for (j = 1:2:9)
end
while true
    x = x - 1;
end
parfor (p = 1:n, 4)
    r(p) = p;
end
parfor q = 1:n
end
switch lower(s)
    case {'a', 'b'}
        y = 1;
    case 'c'
    otherwise
        y = 3;
end
try
    risky();
catch err
    disp(err.message);
end
try
    risky();
catch
end
try
end
spmd (2, 4)
    x = labindex;
end
spmd
end
global g1 g2
persistent cache
import pkg.sub.*
import pkg.fn
return
`,
	"commands": `
hold on
format long g
disp 'hello world'
pkg.fn -opt value
!echo hi there
x = 1;
`,
	"lambdas": `
f = @(x, y) x.^2 + y;
g = @() disp('hi');
h = @(~, v) v(end);
k = cellfun(@(c) numel(c), {1, [1 2]});
m = ?pkg.Class;
r = obj@pkg.Base(1, 2);
`,
	"functions": `
function [a, b] = outer(x, ~)
    arguments
        x (1,:) double {mustBePositive, mustBeFinite} = 1
    end
    a = inner(x);
    b = [];
    function r = inner(v)
        r = v + 1;
    end
end

function helper
end
`,
	"unterminated": `
function a(x)
y = x;
function b
z = 2;
function c()
`,
	"class": `
classdef (Sealed, Hidden = false) Shape < handle & matlab.mixin.Copyable
    properties (Access = private, SetObservable)
        Width (1,1) double = 0
        Height
        Tags (:) string
    end
    methods
        function obj = Shape(w)
            obj.Width = w;
        end
        r = area(obj)
        function set.Width(obj, v)
            obj.Width = v;
        end
    end
    methods (Abstract)
        r = perimeter(obj)
        function draw(obj, ax)
    end
    events
        Resized
    end
    enumeration
        Small(1)
        Large(10, 'big')
        Plain
    end
end

function local(x)
    disp(x);
end
`,
	"script with functions": `
total = add(1, 2);

function r = add(a, b)
    r = a + b;
end
`,
}

func TestFormatterRoundTrip(t *testing.T) {
	for name, source := range roundTripCorpus {
		t.Run(name, func(t *testing.T) {
			unit, err := parser.ParseString(source, "sample.m")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			rendered := Render(unit)

			reparsed, err := parser.ParseString(rendered, "sample.m")
			if err != nil {
				t.Fatalf("Rendered source does not parse: %v\n%s", err, rendered)
			}

			if want, got := parser.DumpString(unit), parser.DumpString(reparsed); want != got {
				t.Errorf("Tree changed after rendering.\nRendered:\n%s\nDiff:\n%s",
					rendered, Diff(want, got).UnifiedDiff("tree"))
			}
			if again := Render(reparsed); again != rendered {
				t.Errorf("Rendering is not stable.\n%s", Diff(rendered, again).UnifiedDiff(name))
			}
		})
	}
}

func TestFormatterDeterministic(t *testing.T) {
	source := roundTripCorpus["control"]
	formatter := New(DefaultConfig())

	first, err := formatter.Format(source, "test.m")
	if err != nil {
		t.Fatalf("Formatting failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		result, err := formatter.Format(source, "test.m")
		if err != nil {
			t.Fatalf("Formatting failed: %v", err)
		}
		if result != first {
			t.Fatalf("Formatting is not deterministic on run %d", i+2)
		}
	}
}

func TestFormatterInvalidSyntax(t *testing.T) {
	_, err := New(nil).Format("x = (1 + ;", "test.m")
	if err == nil {
		t.Fatal("Expected a syntax error")
	}
	if _, ok := err.(*parser.SyntaxError); !ok {
		t.Errorf("Expected *parser.SyntaxError, got %T", err)
	}
}

func TestFormatterParserOptions(t *testing.T) {
	deep := "x = " + strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20) + ";"
	if _, err := New(nil).Format(deep, "test.m", parser.WithMaxDepth(5)); err == nil {
		t.Error("Expected the depth limit to be passed to the parser")
	}
}

func TestFormatterNewCreatesFormatter(t *testing.T) {
	formatter := New(nil)
	if formatter == nil {
		t.Fatal("New() should create a formatter even with nil config")
	}
	if formatter.config == nil {
		t.Errorf("Formatter should have default config when created with nil")
	}
}

func TestFormatterFormatFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "area.m")

	if err := os.WriteFile(filePath, []byte("function r = area(w, h)\nr = w * h;\nend\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	result, err := FormatFile(filePath, DefaultConfig())
	if err != nil {
		t.Fatalf("FormatFile failed: %v", err)
	}
	if !strings.Contains(result, "r = (w * h);") {
		t.Errorf("FormatFile should render the body, got:\n%s", result)
	}
}

func TestFormatterFormatFileNotFound(t *testing.T) {
	if _, err := FormatFile("/nonexistent/file.m", DefaultConfig()); err == nil {
		t.Errorf("FormatFile should return error for nonexistent file")
	}
}

func TestFormatterWriteLine(t *testing.T) {
	f := New(&Config{IndentSize: 3, Semicolons: true})
	f.indent = 2
	f.writeLine("x")
	f.writeLine("")

	if got := f.buf.String(); got != "      x\n\n" {
		t.Errorf("Expected indented line and bare blank line, got %q", got)
	}
}
