package parser

import "sort"

// builtins holds the functions and constants that ship with MATLAB and are
// implemented natively. Assigning to one of them hides it for the rest of
// the workspace.
var builtins = map[string]struct{}{
	// constants
	"true": {}, "false": {}, "pi": {}, "eps": {}, "i": {}, "j": {},
	"Inf": {}, "inf": {}, "NaN": {}, "nan": {}, "NaT": {},
	"intmax": {}, "intmin": {}, "realmax": {}, "realmin": {}, "flintmax": {},

	// construction
	"zeros": {}, "ones": {}, "eye": {}, "rand": {}, "randn": {}, "randi": {},
	"cell": {}, "struct": {}, "cat": {}, "horzcat": {}, "vertcat": {},
	"repmat": {}, "reshape": {}, "linspace": {}, "colon": {},

	// types
	"char": {}, "double": {}, "single": {}, "logical": {},
	"int8": {}, "int16": {}, "int32": {}, "int64": {},
	"uint8": {}, "uint16": {}, "uint32": {}, "uint64": {},
	"class": {}, "isa": {}, "cellfun": {}, "arrayfun": {}, "func2str": {},
	"str2func": {}, "feval": {}, "builtin": {},

	// shape
	"size": {}, "length": {}, "numel": {}, "ndims": {}, "isempty": {},
	"isscalar": {}, "isvector": {}, "isrow": {}, "iscolumn": {},
	"permute": {}, "squeeze": {}, "find": {}, "sort": {},

	// arithmetic
	"abs": {}, "mod": {}, "rem": {}, "sqrt": {}, "exp": {}, "log": {},
	"log2": {}, "log10": {}, "power": {}, "floor": {}, "ceil": {},
	"round": {}, "fix": {}, "sign": {}, "sin": {}, "cos": {}, "tan": {},
	"asin": {}, "acos": {}, "atan": {}, "atan2": {}, "sinh": {},
	"cosh": {}, "tanh": {}, "real": {}, "imag": {}, "conj": {},
	"sum": {}, "prod": {}, "cumsum": {}, "cumprod": {}, "max": {},
	"min": {}, "any": {}, "all": {}, "mean": {}, "norm": {}, "det": {},
	"inv": {}, "mtimes": {}, "plus": {}, "minus": {}, "times": {},

	// predicates
	"isnan": {}, "isinf": {}, "isfinite": {}, "isreal": {}, "ischar": {},
	"iscell": {}, "isstruct": {}, "islogical": {}, "isnumeric": {},
	"isfield": {}, "isequal": {}, "strcmp": {}, "strcmpi": {},
	"strncmp": {}, "strncmpi": {},

	// strings and io
	"disp": {}, "display": {}, "fprintf": {}, "sprintf": {}, "num2str": {},
	"str2double": {}, "strrep": {}, "strfind": {}, "upper": {}, "lower": {},
	"regexp": {}, "regexprep": {}, "fopen": {}, "fclose": {}, "fread": {},
	"fwrite": {}, "fgetl": {}, "input": {}, "keyboard": {},

	// control
	"error": {}, "warning": {}, "assert": {}, "nargin": {}, "nargout": {},
	"narginchk": {}, "nargoutchk": {}, "varargin": {}, "varargout": {},
	"exist": {}, "isvarname": {}, "tic": {}, "toc": {}, "clock": {},
	"now": {}, "clc": {}, "clear": {}, "exit": {}, "quit": {},
	"evalin": {}, "assignin": {}, "eval": {}, "system": {},
	"fieldnames": {}, "rmfield": {}, "setfield": {}, "getfield": {},
}

// IsBuiltin reports whether name is a builtin function or constant
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Builtins returns the builtin names in sorted order
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
