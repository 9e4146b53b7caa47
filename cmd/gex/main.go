package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/gexlang/gex/internal/ctxlog"
	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/genome"
)

const usage = `Usage: gex <command> [flags] [args]

Commands:
  repl    interactive read-eval-print loop
  query   evaluate expressions over a sqlite table
  check   parse and typecheck an expression or type literal

Run 'gex <command> -h' for the command's flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "repl":
		err = cmdRepl(args)
	case "query":
		err = cmdQuery(args)
	case "check":
		err = cmdCheck(args)
	case "help", "-h", "-help", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunContext builds the context every command runs under: a text
// slog handler at the requested level, tagged with a fresh run id.
func newRunContext(verbose bool) context.Context {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger = logger.With("run", uuid.NewString())
	return ctxlog.WithLogger(context.Background(), logger)
}

// genomeFlags are the reference genome flags shared by every command.
type genomeFlags struct {
	file   string
	remote string
	fetch  string
	ref    string
}

func (g *genomeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.file, "g", "", "YAML genome definition `file` to load")
	fs.StringVar(&g.remote, "remote", "", "reference service `address` to fetch genomes from")
	fs.StringVar(&g.fetch, "fetch", "", "comma-separated genome `names` to fetch from -remote")
	fs.StringVar(&g.ref, "r", "GRCh37", "default `reference` genome")
}

// options builds the compile options: the built-in registry extended by
// -g and -remote, with -r as the default reference.
func (g *genomeFlags) options(ctx context.Context) (eval.Options, error) {
	reg := genome.NewRegistry()
	log := ctxlog.FromContext(ctx)
	if g.file != "" {
		if err := reg.LoadFile(g.file); err != nil {
			return eval.Options{}, err
		}
		log.Debug("loaded genome definitions", "file", g.file)
	}
	if g.remote != "" {
		if g.fetch == "" {
			return eval.Options{}, fmt.Errorf("-remote requires -fetch with at least one genome name")
		}
		client, err := genome.Dial(g.remote)
		if err != nil {
			return eval.Options{}, err
		}
		defer client.Close()
		names := strings.Split(g.fetch, ",")
		if err := client.FetchInto(ctx, reg, names...); err != nil {
			return eval.Options{}, err
		}
		log.Debug("fetched remote genomes", "remote", g.remote, "names", names)
	}
	return eval.Options{Genomes: reg, Reference: g.ref}, nil
}
