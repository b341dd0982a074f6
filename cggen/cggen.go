// Package cggen generates Go source files embedding compiled grammars.
//
// Generated file contains the grammar in hex text form and a package variable
// initialized with unpack.MustLoadHex, so the grammar is decoded once at program start.
package cggen

import (
	"bytes"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/ava12/bachcg/pack"
	"github.com/ava12/bachcg/unpack"
)

const unpackPath = "github.com/ava12/bachcg/unpack"

// DefaultWidth is the default number of grammar bytes per generated line.
const DefaultWidth = 32

// Options controls generated code.
type Options struct {
	// Package is the Go package name, required.
	Package string

	// Var is the name of the *unpack.Grammar variable, default is "Grammar".
	Var string

	// Const is the name of the hex text constant, default is Var with lowercase first letter and "Hex" suffix.
	Const string

	// Width is the number of grammar bytes per line, DefaultWidth if not positive.
	Width int

	// Source is mentioned in the header comment if not empty.
	Source string
}

func (o *Options) normalize() error {
	if o.Var == "" {
		o.Var = "Grammar"
	}
	if o.Const == "" {
		r, size := utf8.DecodeRuneInString(o.Var)
		o.Const = string(unicode.ToLower(r)) + o.Var[size:] + "Hex"
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}

	if !token.IsIdentifier(o.Package) || o.Package == "_" {
		return fmt.Errorf("invalid package name: %q", o.Package)
	}
	if !token.IsIdentifier(o.Var) {
		return fmt.Errorf("invalid variable name: %q", o.Var)
	}
	if !token.IsIdentifier(o.Const) || o.Const == o.Var {
		return fmt.Errorf("invalid constant name: %q", o.Const)
	}
	return nil
}

// Generate renders a Go file embedding compiled grammar data.
// data is loaded first, so a malformed grammar never gets into generated code.
func Generate(data []byte, opts Options) ([]byte, error) {
	if e := opts.normalize(); e != nil {
		return nil, e
	}
	if _, e := unpack.Load(data); e != nil {
		return nil, e
	}

	f := jen.NewFile(opts.Package)
	if opts.Source != "" {
		f.HeaderComment(fmt.Sprintf("Code generated by cgtool from %s. DO NOT EDIT.", filepath.Base(opts.Source)))
	} else {
		f.HeaderComment("Code generated by cgtool. DO NOT EDIT.")
	}
	f.ImportName(unpackPath, "unpack")

	f.Const().Id(opts.Const).Op("=").Add(hexLiteral(data, opts.Width))
	f.Line()
	f.Commentf("%s is the compiled grammar, %d bytes.", opts.Var, len(data))
	f.Var().Id(opts.Var).Op("=").Qual(unpackPath, "MustLoadHex").Call(jen.Id(opts.Const))

	var buf bytes.Buffer
	if e := f.Render(&buf); e != nil {
		return nil, e
	}
	return buf.Bytes(), nil
}

func hexLiteral(data []byte, width int) *jen.Statement {
	lines := strings.Split(strings.TrimSuffix(pack.Hex(data, width), "\n"), "\n")
	expr := jen.Lit(lines[0])
	for _, line := range lines[1:] {
		expr = expr.Op("+").Line().Lit(line)
	}
	return expr
}

// PackageName returns the name of the directory containing the output file, suitable as a default package name.
func PackageName(outFile string) (string, error) {
	abs, e := filepath.Abs(outFile)
	if e != nil {
		return "", e
	}

	name := strings.ReplaceAll(filepath.Base(filepath.Dir(abs)), "-", "_")
	if !token.IsIdentifier(name) {
		return "", fmt.Errorf("cannot derive package name from %s", outFile)
	}
	return name, nil
}
