package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/bachcg/grammar"
	"github.com/ava12/bachcg/internal/check"
	"github.com/ava12/bachcg/langdef"
	"github.com/ava12/bachcg/unpack"
)

const textFormat = "text"

var dumpFormat string

// dumpCmd prints grammar structure
var dumpCmd = &cobra.Command{
	Use:   "dump <grammar>",
	Short: "Print the structure of a compiled grammar",
	Long: `Reads a compiled grammar (raw or hex) or a grammar definition and prints its structure.
Formats are text (default, terminal sets resolved with configured shorthand), yaml, toml, json, and cbor.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", textFormat, "output format: text, yaml, toml, json, or cbor")
}

func runDump(cmd *cobra.Command, args []string) error {
	data, e := check.ReadGrammar(args[0])
	if e != nil {
		return e
	}

	g, e := unpack.Load(data, unpack.WithLogger(logger))
	if e != nil {
		return fmt.Errorf("%s: %w", args[0], e)
	}

	out := cmd.OutOrStdout()
	if dumpFormat == textFormat {
		return dumpText(out, g, cfg.Shorthand)
	}

	content, e := langdef.Marshal(g.Describe(), dumpFormat)
	if e != nil {
		return e
	}
	_, e = out.Write(content)
	return e
}

func dumpText(w io.Writer, g *unpack.Grammar, shorthand string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "states: %d, terminal sets: %d, end states: %v\n", g.NumStates(), g.NumTerminalSets(), g.EndStates())
	fmt.Fprintf(&sb, "terminals: %q\n", g.Terminals())

	id := 0
	for chars := range g.TerminalSets(shorthand) {
		if chars != "" || id == grammar.EofSet {
			fmt.Fprintf(&sb, "set %d: %q\n", id, chars)
		}
		id++
	}

	state := 0
	for prods := range unpack.AllProductions(g, grammar.NewProduction) {
		end := ""
		if g.IsEndState(state) {
			end = " (end)"
		}
		fmt.Fprintf(&sb, "state %d%s:\n", state, end)
		i := 0
		for p := range prods {
			fmt.Fprintf(&sb, "  #%d %s\n", i, formatProduction(p))
			i++
		}
		state++
	}

	_, e := io.WriteString(w, sb.String())
	return e
}

func formatTarget(t grammar.Target) string {
	if t.Inverted {
		return fmt.Sprintf("!%d", t.State)
	}
	return fmt.Sprint(t.State)
}

func formatProduction(p grammar.Production) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sets %v -> %s", p.TerminalSets, formatTarget(p.Target))
	if p.Action.State != 0 || p.Action.Inverted {
		sb.WriteString(" action " + formatTarget(p.Action))
	}

	f := p.Flags
	if f.Capture {
		sb.WriteString(" capture")
		if f.Start {
			sb.WriteString(" start")
		}
		if f.End {
			sb.WriteString(" end")
		}
		if f.As != 0 {
			fmt.Fprintf(&sb, " as %d", f.As)
		}
	}
	return sb.String()
}
