package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
)

type (
	// plan describes a batch and the edits to apply to it. Rows are referenced
	// by their 1-based position in the loaded batch.
	plan struct {
		Selection           batch.Selection `yaml:"selection"`
		Rows                []batch.NewRow  `yaml:"rows"`
		CommonRegistrations []int           `yaml:"common_registrations"`
		Groupings           []grouping      `yaml:"groupings"`
	}

	grouping struct {
		Row          int           `yaml:"row"`
		Combinations []combination `yaml:"combinations"`
	}

	combination struct {
		Majors    []string    `yaml:"majors"` // major2, major3
		ClassSize batch.Input `yaml:"class_size"`
	}
)

func readPlan(path string) (plan, error) {
	var p plan
	data, err := readFileFunc(path)
	if err != nil {
		return p, errors.Wrap(err, "reading plan")
	}
	if err = yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrap(err, "decoding plan")
	}
	return p, nil
}

// load creates the batch session of a plan and applies its edits in order:
// common registrations first, then groupings. On error the returned view is
// the last good state of the session, if one was created.
func (cli *commandLine) load(ctx context.Context, p plan) (batch.View, error) {
	nb := batch.NewBatch{Selection: p.Selection, Rows: p.Rows}
	if err := nb.Validate(cli.validate); err != nil {
		return batch.View{}, err
	}

	var (
		view batch.View
		err  error
	)
	if len(nb.Rows) > 0 {
		view, err = cli.svc.Create(nb.Selection, nb.BatchRows())
	} else {
		view, err = cli.svc.Load(ctx, nb.Selection)
	}
	if err != nil {
		return view, err
	}

	apply := func(next batch.View, err error) error {
		if err == nil {
			view = next
		}
		return err
	}

	enabled := true
	for _, row := range p.CommonRegistrations {
		if err = apply(cli.svc.ToggleCommonRegistration(view.ID, batch.RowID(row), batch.Toggle{Enabled: &enabled})); err != nil {
			return view, errors.Wrapf(err, "common registration of row %d", row)
		}
	}

	for _, g := range p.Groupings {
		id := batch.RowID(g.Row)
		if err = apply(cli.svc.ToggleGrouping(view.ID, id, batch.Toggle{Enabled: &enabled})); err != nil {
			return view, errors.Wrapf(err, "grouping row %d", g.Row)
		}
		for i, c := range g.Combinations {
			if i > 0 {
				if err = apply(cli.svc.AddCombination(view.ID, id)); err != nil {
					return view, errors.Wrapf(err, "adding combination to row %d", g.Row)
				}
			}
			comboID, err := combinationID(view, id, i)
			if err != nil {
				return view, err
			}
			if len(c.Majors) > len(batch.Slots) {
				return view, fmt.Errorf("row %d: a combination takes at most %d extra majors", g.Row, len(batch.Slots))
			}
			for j, major := range c.Majors {
				mu := batch.MajorUpdate{Slot: batch.Slots[j], Value: major}
				if err = apply(cli.svc.UpdateCombinationMajor(view.ID, id, comboID, mu)); err != nil {
					return view, errors.Wrapf(err, "row %d: selecting %q", g.Row, major)
				}
			}
			if c.ClassSize != "" {
				cs := batch.ClassSizeUpdate{Value: c.ClassSize}
				if err = apply(cli.svc.UpdateCombinationClassSize(view.ID, id, comboID, cs)); err != nil {
					return view, errors.Wrapf(err, "row %d: setting class size", g.Row)
				}
			}
		}
	}
	return view, nil
}

func combinationID(view batch.View, row batch.RowID, i int) (string, error) {
	for _, r := range view.Rows {
		if r.ID == row && i < len(r.Combinations) {
			return r.Combinations[i].ID, nil
		}
	}
	return "", fmt.Errorf("row %d has no combination #%d", row, i+1)
}
