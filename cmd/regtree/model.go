package main

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/wlattner/regtree/config"
	"github.com/wlattner/regtree/forest"
	"github.com/wlattner/regtree/serialize"
	"github.com/wlattner/regtree/tree"
)

// model wraps a trained forest.BaggingEnsemble with the bookkeeping the
// CLI host needs to fit, report on, save, and reload it.
type model struct {
	Ensemble  *forest.BaggingEnsemble
	VarNames  []string
	RowLength int
	NumTrees  int
	fitTime   time.Duration
	nSample   int
}

func (m *model) fit(d *parsedInput, cfg *config.Ensemble) error {
	start := time.Now()

	var xVal, yVal []float64
	if cfg.PrunerType == "reduced_error" && cfg.ValidationFile != "" {
		vf, err := os.Open(cfg.ValidationFile)
		if err != nil {
			return err
		}
		v, err := parseCSV(vf)
		vf.Close()
		if err != nil {
			return err
		}
		xVal, yVal = v.X, v.Y
	}

	fCfg, err := cfg.Build(xVal, yVal, d.RowLength)
	if err != nil {
		return err
	}

	ensemble, err := forest.NewBaggingEnsemble(fCfg)
	if err != nil {
		return err
	}
	if err := ensemble.Train(d.X, d.RowLength, d.Y); err != nil {
		return err
	}

	m.Ensemble = ensemble
	m.VarNames = d.VarNames
	m.RowLength = d.RowLength
	m.NumTrees = len(ensemble.Trees)
	m.fitTime = time.Since(start)
	m.nSample = len(d.Y)
	return nil
}

func (m *model) predict(d *parsedInput) []string {
	out := make([]string, len(d.Y))
	for i := range out {
		row := d.X[i*d.RowLength : (i+1)*d.RowLength]
		out[i] = strconv.FormatFloat(m.Ensemble.Predict(row), 'f', -1, 64)
	}
	return out
}

func (m *model) varImp() []float64 {
	return m.Ensemble.FeatureImportance(m.RowLength)
}

func (m *model) report(w io.Writer) {
	fmt.Fprintf(w, "Fit %d trees using %d examples in %.2f seconds\n",
		m.NumTrees, m.nSample, m.fitTime.Seconds())
	fmt.Fprintf(w, "\n")

	m.reportVarImp(w, 20)

	fmt.Fprintf(w, "Mean Squared Error: %.3f\n", m.Ensemble.MSE)
	fmt.Fprintf(w, "R-Squared: %.3f%%\n", 100*m.Ensemble.RSquared)
}

func (m *model) reportVarImp(w io.Writer, maxVars int) {
	fmt.Fprintf(w, "Variable Importance\n")
	fmt.Fprintf(w, "-------------------\n")

	imp := m.varImp()
	names := make([]string, len(m.VarNames))
	copy(names, m.VarNames)
	sortByImportance(imp, names)

	if maxVars > len(imp) {
		maxVars = len(imp)
	}
	for i, v := range imp[:maxVars] {
		fmt.Fprintf(w, "%-15s: %-10.4f\n", names[i], v)
	}
	fmt.Fprintf(w, "\n")
}

func (m *model) saveVarImp(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	for i, score := range m.varImp() {
		if err := writer.Write([]string{m.VarNames[i], strconv.FormatFloat(score, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	return nil
}

// modelFile is the on-disk form of a fitted model: plain data, no
// interface-typed fields, so it round-trips through encoding/gob without
// registering the strategy types (finder.Finder, criterion.Criterion,
// pruner.Pruner) a live forest.BaggingEnsemble carries for training but
// never needs again for prediction.
type modelFile struct {
	Trees     [][]serialize.NodeRecord
	VarNames  []string
	RowLength int
	MSE       float64
	RSquared  float64
}

func (m *model) save(w io.Writer) error {
	mf := modelFile{
		VarNames:  m.VarNames,
		RowLength: m.RowLength,
		MSE:       m.Ensemble.MSE,
		RSquared:  m.Ensemble.RSquared,
	}
	for _, t := range m.Ensemble.Trees {
		mf.Trees = append(mf.Trees, serialize.Flatten(t.Root))
	}
	return gob.NewEncoder(w).Encode(mf)
}

func (m *model) load(r io.Reader) error {
	var mf modelFile
	if err := gob.NewDecoder(r).Decode(&mf); err != nil {
		return err
	}

	trees := make([]*tree.SingleTreeTrainer, len(mf.Trees))
	for i, records := range mf.Trees {
		trees[i] = &tree.SingleTreeTrainer{Root: serialize.Rebuild(records)}
	}

	m.Ensemble = &forest.BaggingEnsemble{
		Trees:     trees,
		NFeatures: mf.RowLength,
		MSE:       mf.MSE,
		RSquared:  mf.RSquared,
	}
	m.VarNames = mf.VarNames
	m.RowLength = mf.RowLength
	m.NumTrees = len(trees)
	return nil
}

type varImpSort struct {
	names []string
	imp   []float64
}

func (v varImpSort) Len() int           { return len(v.imp) }
func (v varImpSort) Less(i, j int) bool { return v.imp[i] < v.imp[j] }
func (v varImpSort) Swap(i, j int) {
	v.imp[i], v.imp[j] = v.imp[j], v.imp[i]
	v.names[i], v.names[j] = v.names[j], v.names[i]
}

func sortByImportance(imp []float64, names []string) {
	sort.Sort(sort.Reverse(varImpSort{imp: imp, names: names}))
}
