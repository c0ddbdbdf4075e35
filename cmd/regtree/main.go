package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/davecheney/profile"

	"github.com/wlattner/regtree/config"
)

var (
	dataFile    = flag.String("data", "", "example data (CSV, target in column 1)")
	predictFile = flag.String("predictions", "", "file to output predictions; fits a new model if empty")
	modelFile   = flag.String("final_model", "regtree.model", "file to save/load the fitted model")
	impFile     = flag.String("var_importance", "", "file to output variable importance estimates")
	configFile  = flag.String("config", "", "YAML file with ensemble hyperparameters")

	nWorkers   = flag.Int("workers", 1, "number of workers for fitting trees")
	runProfile = flag.Bool("profile", false, "cpu profile")
)

func main() {
	flag.Parse()

	if *nWorkers > 1 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	if *runProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *dataFile == "" {
		fmt.Fprintf(os.Stderr, "Usage of regtree:\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*dataFile)
	if err != nil {
		fatal("error opening data file", err.Error())
	}
	defer f.Close()

	d, err := parseCSV(f)
	if err != nil {
		fatal("error parsing input data", err.Error())
	}

	if *predictFile != "" {
		m, err := loadModel(*modelFile)
		if err != nil {
			fatal("error opening model file", err.Error())
		}

		pred := m.predict(d)

		o, err := os.Create(*predictFile)
		if err != nil {
			fatal("error creating", *predictFile, err.Error())
		}
		defer o.Close()

		if err := writePred(o, pred); err != nil {
			fatal("error writing predictions", err.Error())
		}
		return
	}

	cfg := &config.Ensemble{NumWorkers: *nWorkers}
	if *configFile != "" {
		loaded, err := config.ReadFile(*configFile)
		if err != nil {
			fatal("error reading config", err.Error())
		}
		cfg = loaded
		if cfg.NumWorkers == 0 {
			cfg.NumWorkers = *nWorkers
		}
	}

	m := new(model)
	if err := m.fit(d, cfg); err != nil {
		fatal("error fitting model", err.Error())
	}

	o, err := os.Create(*modelFile)
	if err != nil {
		fatal("error saving model", err.Error())
	}
	defer o.Close()

	if err := m.save(o); err != nil {
		fatal("error saving model", err.Error())
	}

	if *impFile != "" {
		vf, err := os.Create(*impFile)
		if err != nil {
			fatal("error saving variable importance", err.Error())
		}
		defer vf.Close()
		if err := m.saveVarImp(vf); err != nil {
			fatal("error saving variable importance", err.Error())
		}
	}

	m.report(os.Stderr)
}

func loadModel(fName string) (*model, error) {
	f, err := os.Open(fName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := new(model)
	err = m.load(f)
	return m, err
}

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

func writePred(w io.Writer, prediction []string) error {
	wtr := bufio.NewWriter(w)
	for _, pred := range prediction {
		if _, err := wtr.WriteString(pred); err != nil {
			return err
		}
		if err := wtr.WriteByte('\n'); err != nil {
			return err
		}
	}
	return wtr.Flush()
}
