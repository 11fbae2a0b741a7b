package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
	"github.com/trezcool/gradebook/storage/datafile"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf  *core.Config
	log   core.Logger
	svc   *school.Service
	stdin io.Reader
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  shell                           - run the gradebook menu (default)")
	fmt.Fprintln(cli.out, "  check [-file PATH]              - load a data file and print what was loaded")
	fmt.Fprintln(cli.out, "  report [-file PATH] [-xlsx OUT] - print the grade reports, optionally exporting them to a spreadsheet")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		return cli.shell(cli.store(cli.conf.DataFile))
	}

	checkCmd := flag.NewFlagSet("check", flag.ContinueOnError)
	checkFile := checkCmd.String("file", cli.conf.DataFile, "The data file to check.")
	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportFile := reportCmd.String("file", cli.conf.DataFile, "The data file to report on.")
	reportXlsx := reportCmd.String("xlsx", "", "Also write the reports to this spreadsheet.")
	checkCmd.SetOutput(cli.out)
	reportCmd.SetOutput(cli.out)

	switch args[1] {
	case "shell":
		return cli.shell(cli.store(cli.conf.DataFile))
	case "check":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *checkFile == "" {
			checkCmd.Usage()
			return errHelp
		}
		return cli.check(cli.store(*checkFile))
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportFile == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(cli.store(*reportFile), *reportXlsx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) store(path string) *datafile.Store {
	return datafile.NewStore(path, cli.svc, cli.log)
}

// openInput returns the command source: the input file when it exists, stdin otherwise.
func (cli *commandLine) openInput() (in io.Reader, interactive bool, closeFn func(), err error) {
	if path := cli.conf.InputFile; path != "" {
		f, err := os.Open(path)
		if err == nil {
			fmt.Fprintf(cli.out, "Reading commands from %s\n", path)
			return f, false, func() { _ = f.Close() }, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, nil, err
		}
	}
	if f, ok := cli.stdin.(*os.File); ok {
		interactive = isTerminalFunc(int(f.Fd()))
	}
	return cli.stdin, interactive, func() {}, nil
}
