package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/parser"
)

// cmdCheck parses and typechecks without evaluating. With -t the
// argument is a type literal and its canonical form prints; otherwise
// it is an expression and its checked type prints. Failures exit
// nonzero with the diagnostic, including the caret line for syntax
// errors.
func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("gex check", flag.ExitOnError)
	var gf genomeFlags
	gf.register(fs)
	typeLit := fs.Bool("t", false, "treat the argument as a type literal")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("gex check: exactly one EXPR or TYPE argument")
	}
	src := fs.Arg(0)

	if *typeLit {
		t, err := parser.ParseType(src)
		if err != nil {
			return err
		}
		fmt.Println(t)
		return nil
	}

	ctx := newRunContext(*verbose)
	opts, err := gf.options(ctx)
	if err != nil {
		return err
	}
	expr, err := parser.Parse(src)
	if err != nil {
		return err
	}
	checked, err := eval.Check(expr, nil, opts)
	if err != nil {
		return err
	}
	fmt.Println(checked.Type())
	return nil
}
