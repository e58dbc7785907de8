package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	rlox "github.com/exicx/rlox"
)

const (
	appName     = "rlox"
	historyFile = ".rlox_history"
	prompt      = "> "
)

var banner = fmt.Sprintf("rlox %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", rlox.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	tokens := flag.Bool("tokens", false, "dump scanned tokens instead of running")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	switch {
	case len(args) > 1:
		usage()
		os.Exit(2)
	case len(args) == 1:
		os.Exit(runFile(args[0], *tokens))
	default:
		os.Exit(repl())
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `rlox %s

Usage:
  %s [flags] [script]

Runs the script if given, otherwise starts the REPL.

Flags:
  -tokens   Dump the scanned tokens of the script instead of running it.
`, rlox.Version, appName)
}

func runFile(file string, dumpTokens bool) int {
	// An unreadable script is a usage-level mistake, not a failure of the
	// program being run.
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 2
	}

	if dumpTokens {
		toks, err := rlox.NewScanner(string(src)).Scan()
		if err != nil {
			fmt.Fprintln(os.Stderr, rlox.WrapErrorWithName(err, file, string(src)).Error())
			return 1
		}
		for _, t := range toks {
			fmt.Println(t)
		}
		return 0
	}

	if err := rlox.RunNamed(file, string(src), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func repl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := rlox.NewInterpreter(os.Stdout)

	for {
		code, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			// Ctrl+C aborts the current input.
			continue
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		last, ok, err := ip.Eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if ok {
			fmt.Println(blue(rlox.FormatValue(last)))
		}
		ln.AppendHistory(code)
	}

	return 0
}
