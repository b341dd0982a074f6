package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava12/bachcg/cggen"
	"github.com/ava12/bachcg/internal/check"
	"github.com/ava12/bachcg/langdef"
	"github.com/ava12/bachcg/pack"
	"github.com/ava12/bachcg/unpack"
)

var (
	packOutput string
	packHex    bool

	genOutput  string
	genPackage string
	genVar     string
)

// packCmd compiles a grammar definition
var packCmd = &cobra.Command{
	Use:   "pack <definition>",
	Short: "Compile a grammar definition into the binary format",
	Long: `Reads a YAML, TOML, or JSON grammar definition and writes the compiled grammar.
Output file defaults to the definition name with .cg (or .hex with --hex) extension, "-" means stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

// genCmd generates Go code embedding a grammar
var genCmd = &cobra.Command{
	Use:   "gen <grammar>",
	Short: "Generate Go code embedding a compiled grammar",
	Long: `Reads a grammar definition or a compiled grammar (raw or hex) and writes a Go file
declaring a variable initialized with the decoded grammar.
Package name defaults to the output directory name, variable name defaults to Grammar.`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output file name")
	packCmd.Flags().BoolVar(&packHex, "hex", false, "write hex text instead of binary")

	genCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file name, default is the input name with .go extension")
	genCmd.Flags().StringVarP(&genPackage, "package", "p", "", "Go package name")
	genCmd.Flags().StringVarP(&genVar, "var", "v", "", "Go variable name")
}

// compile reads a grammar file and checks it if validation is enabled.
func compile(path string) ([]byte, error) {
	data, e := check.ReadGrammar(path)
	if e != nil {
		return nil, e
	}

	if cfg.Validate {
		if _, e := unpack.Load(data, unpack.WithLogger(logger), unpack.WithValidation(cfg.Shorthand)); e != nil {
			return nil, fmt.Errorf("%s: %w", path, e)
		}
	}
	return data, nil
}

func runPack(cmd *cobra.Command, args []string) error {
	in := args[0]
	if langdef.FormatOf(in) == "" || langdef.FormatOf(in) == langdef.CBOR {
		return fmt.Errorf("%s: definition file must have .yaml, .yml, .toml, or .json extension", in)
	}

	data, e := compile(in)
	if e != nil {
		return e
	}
	logger.Debug("grammar compiled", zap.String("path", in), zap.Int("bytes", len(data)))

	out := packOutput
	if packHex {
		data = []byte(pack.Hex(data, cfg.HexWidth))
		if out == "" {
			out = outputName(in, ".hex")
		}
	} else if out == "" {
		out = outputName(in, ".cg")
	}
	return writeOutput(cmd, out, data)
}

func runGen(cmd *cobra.Command, args []string) error {
	in := args[0]
	data, e := compile(in)
	if e != nil {
		return e
	}

	out := genOutput
	if out == "" {
		out = outputName(in, ".go")
	}

	opts := cggen.Options{
		Package: genPackage,
		Var:     genVar,
		Width:   cfg.HexWidth,
		Source:  in,
	}
	if opts.Package == "" {
		opts.Package = cfg.Gen.Package
	}
	if opts.Var == "" {
		opts.Var = cfg.Gen.Var
	}
	if opts.Package == "" {
		// "-" resolves to the working directory
		if opts.Package, e = cggen.PackageName(out); e != nil {
			return e
		}
	}

	src, e := cggen.Generate(data, opts)
	if e != nil {
		return e
	}
	return writeOutput(cmd, out, src)
}
