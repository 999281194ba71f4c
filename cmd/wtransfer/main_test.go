package main

import (
	"errors"
	"flag"
	"testing"

	kitlog "github.com/go-kit/kit/log"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

func TestExplicitZeroStepRejected(t *testing.T) {
	confPath = "../../conf.toml"
	plotPath = ""
	csvPrefix = ""
	if flagSet("dt") {
		t.Fatal("dt reported as set before parsing")
	}
	if err := flag.CommandLine.Set("dt", "0"); err != nil {
		t.Fatalf("err: %s", err)
	}
	if !flagSet("dt") {
		t.Fatal("explicit dt not detected")
	}
	err := run(kitlog.NewNopLogger())
	if !errors.Is(err, wtransfer.ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error for dt=0, got %v", err)
	}
	var cerr *wtransfer.ConfigError
	if !errors.As(err, &cerr) || cerr.Field != "dt" {
		t.Fatalf("expected the dt field to be blamed, got %v", err)
	}
}
