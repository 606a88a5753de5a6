package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) preview(ctx context.Context, path string) error {
	p, err := readPlan(path)
	if err != nil {
		return err
	}
	view, err := cli.load(ctx, p)
	if view.ID != "" {
		defer func() { _ = cli.svc.Discard(view.ID) }()
	}
	if err != nil {
		return err
	}
	items, err := cli.svc.Preview(view.ID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tNAME\tPERIODS\tCLASSES\tHEADCOUNT\tCLASS SIZE\tMAJOR\tCLASS YEAR\tPROGRAM")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			it.SubjectCode, it.SubjectName, it.PeriodCount, it.ClassCount, it.Headcount,
			it.PerClassSize, it.Major, it.ClassYear, it.ProgramType)
	}
	return w.Flush()
}

func (cli *commandLine) generate(ctx context.Context, path string) error {
	p, err := readPlan(path)
	if err != nil {
		return err
	}
	view, err := cli.load(ctx, p)
	if err != nil {
		if view.ID != "" {
			_ = cli.svc.Discard(view.ID)
		}
		return err
	}
	sub, err := cli.svc.Generate(ctx, view.ID)
	if err != nil {
		_ = cli.svc.Discard(view.ID)
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tMAJOR\tCLASS YEAR\tCLASSES\tDAY\tSTART\tPERIODS\tROOM\tWEEKS\tNOTE")
	for _, r := range sub.ResultRows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.SubjectCode, r.Major, r.ClassYear, r.ClassCount,
			optional(r.Day), optional(r.StartPeriod), optional(r.PeriodCount), r.Room, r.Weeks, r.Note)
	}
	return w.Flush()
}

func optional(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}
