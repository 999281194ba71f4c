package main

import (
	"flag"
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

// Computes both Earth→Mars transfers, prints the comparison and saves the plot.

const defaultUnset = "~~unset~~"

var (
	confPath  string
	dt        float64
	plotPath  string
	csvPrefix string
	departure string
	verbose   bool
)

func init() {
	flag.StringVar(&confPath, "config", "", "TOML configuration file (defaults to $WTRANSFER_CONFIG/conf.toml)")
	flag.Float64Var(&dt, "dt", 0, "integration step size, smaller = more accurate/slower (overrides the configuration)")
	flag.StringVar(&plotPath, "plot", defaultUnset, "trajectory plot output, empty to disable")
	flag.StringVar(&csvPrefix, "csv", defaultUnset, "prefix of the CSV sample exports, empty to disable")
	flag.StringVar(&departure, "departure", "", "departure epoch, as a Julian date or UTC date")
	flag.BoolVar(&verbose, "verbose", false, "log solver details")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	if !verbose {
		logger = kitlog.NewNopLogger()
	}
	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(logger kitlog.Logger) error {
	conf, err := wtransfer.LoadConfig(confPath)
	if err != nil {
		return err
	}
	cst := conf.Constants
	if flagSet("dt") {
		cst.Dt = dt
	}
	if plotPath != defaultUnset {
		conf.Report.PlotPath = plotPath
	}
	if csvPrefix != defaultUnset {
		conf.Report.CSVPath = csvPrefix
	}
	if departure != "" {
		if conf.Report.Departure, err = wtransfer.ParseEpoch(departure); err != nil {
			return err
		}
	}
	logger.Log("level", "info", "subsys", "conf", "dt", cst.Dt, "H", cst.HW, "J", cst.JW, "time_cap", cst.TimeCap)

	hoh, err := wtransfer.Hohmann(cst, wtransfer.WithLogger(logger))
	if err != nil {
		return err
	}
	w, err := wtransfer.IntegrateWStructure(cst, wtransfer.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Err(); err != nil {
		logger.Log("level", "warning", "subsys", "wstructure", "err", err)
	}

	if err := wtransfer.Compare(cst, hoh, w, conf.Report.Departure).Print(os.Stdout); err != nil {
		return err
	}

	if conf.Report.CSVPath != "" {
		for _, res := range []wtransfer.TransferResult{hoh, w} {
			name := fmt.Sprintf("%s-%s.csv", conf.Report.CSVPath, res.Model)
			if err := writeCSV(name, res, cst, conf); err != nil {
				return err
			}
			fmt.Printf("Saved: %s\n", name)
		}
	}
	if conf.Report.PlotPath != "" {
		if err := wtransfer.SavePlot(conf.Report.PlotPath, cst, hoh, w); err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
		fmt.Printf("\nSaved: %s\n", conf.Report.PlotPath)
	}
	return nil
}

func writeCSV(name string, res wtransfer.TransferResult, cst wtransfer.Constants, conf wtransfer.Config) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := wtransfer.WriteCSV(f, res, cst, conf.Report.Departure); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}
