package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gexlang/gex/internal/ctxlog"
	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/parser"
)

const replHelp = `Commands:
  :type EXPR   print the checked type of EXPR
  :genomes     list the known reference genomes
  :help        show this help
  :quit        leave the repl

Anything else is compiled and evaluated as an expression.
`

func cmdRepl(args []string) error {
	fs := flag.NewFlagSet("gex repl", flag.ExitOnError)
	var gf genomeFlags
	gf.register(fs)
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := newRunContext(*verbose)
	opts, err := gf.options(ctx)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("starting repl", "reference", gf.ref)

	r := &repl{
		out:   os.Stdout,
		opts:  opts,
		color: stdoutIsTerminal(),
	}
	return r.loop(os.Stdin)
}

func stdoutIsTerminal() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

type repl struct {
	out   io.Writer
	opts  eval.Options
	color bool
}

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
)

func (r *repl) paint(s, color string) string {
	if !r.color {
		return s
	}
	return color + s + ansiReset
}

func (r *repl) loop(in io.Reader) error {
	sc := bufio.NewScanner(in)
	r.prompt()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line == ":quit" || line == ":q":
			return nil
		case line == ":help":
			fmt.Fprint(r.out, replHelp)
		case line == ":genomes":
			fmt.Fprintln(r.out, strings.Join(r.opts.Genomes.Names(), " "))
		case strings.HasPrefix(line, ":type "):
			r.showType(strings.TrimSpace(strings.TrimPrefix(line, ":type ")))
		case strings.HasPrefix(line, ":"):
			r.errorf("unknown command %s (:help lists commands)", line)
		default:
			r.eval(line)
		}
		r.prompt()
	}
	return sc.Err()
}

func (r *repl) prompt() {
	fmt.Fprint(r.out, r.paint("gex> ", ansiCyan))
}

func (r *repl) errorf(format string, args ...any) {
	fmt.Fprintln(r.out, r.paint(fmt.Sprintf(format, args...), ansiRed))
}

func (r *repl) showType(src string) {
	checked, err := r.check(src)
	if err != nil {
		r.errorf("%v", err)
		return
	}
	fmt.Fprintln(r.out, checked.Type())
}

func (r *repl) eval(src string) {
	checked, err := r.check(src)
	if err != nil {
		r.errorf("%v", err)
		return
	}
	v, err := eval.Compile(checked).Run(eval.NewFrame(nil))
	if err != nil {
		r.errorf("%v", err)
		return
	}
	fmt.Fprintf(r.out, "%s %s\n",
		eval.Render(checked.Type(), v),
		r.paint(": "+checked.Type().String(), ansiDim))
}

func (r *repl) check(src string) (*eval.Checked, error) {
	expr, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return eval.Check(expr, nil, r.opts)
}
