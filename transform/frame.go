package transform

import (
	"golang.org/x/sync/errgroup"

	"wrangle/domain/core"
	"wrangle/domain/frame"
)

// Standardize transforms every selected column of the frame to mean 0 and
// spread 1 (median/MAD when Options.Robust). It returns the resulting frame
// and one provenance Result per transformed column; columns outside the
// selection pass through untouched. The default append suffix is "_z".
func Standardize(f *frame.Frame, opts Options, d *core.Diagnostics) (*frame.Frame, []Result, error) {
	return applyVectorEngine(f, opts, "_z", true, d)
}

// Center subtracts the mean (or median, when robust) from every selected
// column without scaling. The default append suffix is "_c".
func Center(f *frame.Frame, opts Options, d *core.Diagnostics) (*frame.Frame, []Result, error) {
	opts.Scale = &Setting{Off: true}
	opts.TwoSD = false
	return applyVectorEngine(f, opts, "_c", false, d)
}

func applyVectorEngine(f *frame.Frame, opts Options, suffix string, scaling bool, d *core.Diagnostics) (*frame.Frame, []Result, error) {
	plan, err := Prepare(f, opts, suffix, d)
	if err != nil {
		return nil, nil, err
	}
	if len(plan.Columns) == 0 {
		d.Warn("no columns matched the selection, data returned unchanged")
		return plan.Frame, nil, nil
	}

	type outcome struct {
		res         Result
		transformed bool
		diags       *core.Diagnostics
	}
	outcomes := make([]outcome, len(plan.Columns))

	// Columns are independent of each other once the plan is fixed, so
	// they transform in parallel. Diagnostics merge afterwards in column
	// order to stay deterministic.
	var g errgroup.Group
	for i := range plan.Columns {
		i := i
		g.Go(func() error {
			local := core.NewDiagnostics()
			col, _ := plan.Frame.Column(plan.Columns[i])
			x, ok := frame.ToNumeric(col)
			if !ok {
				local.Info("unsupported column kind, passed through unchanged", "column", col.Name, "kind", col.Kind)
				outcomes[i] = outcome{diags: local}
				return nil
			}

			vopts := VectorOptions{
				Robust:    opts.Robust,
				TwoSD:     opts.TwoSD,
				Weights:   plan.Weights,
				Center:    plan.Centers[i],
				CenterOff: plan.CenterOff,
				Scale:     plan.Scales[i],
				ScaleOff:  plan.ScaleOff,
			}
			if opts.Reference != nil {
				ref, _ := opts.Reference.Column(plan.Sources[i])
				if refValues, ok := frame.ToNumeric(ref); ok {
					vopts.Reference = refValues
				}
			}

			var res Result
			if scaling {
				res = StandardizeVector(x, vopts, local)
			} else {
				res = CenterVector(x, vopts, local)
			}
			res.Column = plan.Columns[i]
			outcomes[i] = outcome{res: res, transformed: true, diags: local}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var results []Result
	for i, oc := range outcomes {
		d.Merge(oc.diags)
		if !oc.transformed {
			continue
		}
		if err := plan.Frame.SetColumn(frame.NewNumeric(plan.Columns[i], oc.res.Values)); err != nil {
			return nil, nil, err
		}
		results = append(results, oc.res)
	}
	return plan.Frame, results, nil
}
