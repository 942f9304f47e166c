package cli

import (
	"context"
	"sort"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"spese/internal/backend"
	"spese/internal/core"
	"spese/internal/ledger"
)

// Completion describes the spese command line for shell completion.
// Category and payment values are predicted from the ledger.
func Completion(app *App) *complete.Command {
	categories := complete.PredictFunc(func(prefix string) []string {
		return app.distinct(func(r core.Record) string { return r.Category })
	})
	payments := complete.PredictFunc(func(prefix string) []string {
		return app.distinct(func(r core.Record) string { return r.Payment })
	})

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"plain":   predict.Nothing,
			"ledger":  predict.Files("*.csv"),
			"backend": predict.Set(backend.GetBackendTypeStrings()),
		},
		Sub: map[string]*complete.Command{
			"add": {
				Args: predict.Something,
			},
			"edit": {
				Flags: map[string]complete.Predictor{
					"amount":   predict.Something,
					"category": categories,
					"payment":  payments,
				},
				Args: predict.Something,
			},
			"delete": {
				Args: predict.Something,
			},
			"search": {
				Flags: map[string]complete.Predictor{
					"category": categories,
					"payment":  payments,
					"date":     predict.Something,
				},
			},
			"summary": {},
			"monthly": {
				Flags: map[string]complete.Predictor{"m": predict.Something},
			},
			"recent": {
				Flags: map[string]complete.Predictor{"n": predict.Something},
			},
			"chart": {
				Flags: map[string]complete.Predictor{
					"m":     predict.Something,
					"width": predict.Something,
				},
			},
			"watch": {
				Flags: map[string]complete.Predictor{"max": predict.Something},
			},
			"mirror": {
				Flags: map[string]complete.Predictor{
					"to":   predict.Set{"csv", "sqlite", "sheets"},
					"once": predict.Nothing,
					"max":  predict.Something,
				},
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}

// distinct returns the sorted distinct non-empty values of field over the
// ledger, or nothing when the ledger cannot be read.
func (a *App) distinct(field func(core.Record) string) []string {
	ctx := context.Background()
	bcfg, err := backend.FromAppConfig(a.Config)
	if err != nil {
		return nil
	}
	res, err := a.Factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil
	}
	defer res.Close()

	l, err := ledger.Open(ctx, res.Store)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range l.Records() {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
