package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

var (
	readFileFunc = os.ReadFile // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc      *batch.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  preview -file PLAN.yaml - print the generation items of a plan")
	fmt.Fprintln(cli.out, "  generate -file PLAN.yaml - submit a plan for generation and print the results")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	previewCmd := flag.NewFlagSet("preview", flag.ContinueOnError)
	previewCmd.SetOutput(cli.out)
	previewFile := previewCmd.String("file", "", "The YAML plan to preview.")

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateCmd.SetOutput(cli.out)
	generateFile := generateCmd.String("file", "", "The YAML plan to submit.")

	switch args[1] {
	case "preview":
		if err := previewCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *previewFile == "" {
			previewCmd.Usage()
			return errHelp
		}
		return cli.preview(context.Background(), *previewFile)
	case "generate":
		if err := generateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *generateFile == "" {
			generateCmd.Usage()
			return errHelp
		}
		return cli.generate(context.Background(), *generateFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
