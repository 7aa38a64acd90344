package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rybosome/tspice-sub001/backend"
	"github.com/rybosome/tspice-sub001/harness"
	"github.com/rybosome/tspice-sub001/runner"
)

// run executes a single case file against one fake backend and prints its
// {ok, result}/{ok, error} envelope (spec §6: "run (execute a single case
// file against one backend and print its envelope)").
func run(caseURI string) error {
	c, err := harness.LoadCaseFile(caseURI)
	if err != nil {
		return err
	}

	b := backend.NewFakeBackend()
	r := runner.New(b, b.KernelRegistry(), b.ErrState(), b.KernelMode(), os.ReadFile)
	out := r.Run(c)

	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	if !out.OK {
		return cli.Exit("case failed", 1)
	}
	return nil
}

// verify drives every case under a directory through two fresh fake
// backends and reports mismatches (spec §6: "verify (drive cases through
// both backends and print a mismatch report)"). With no external native/WASM
// backend wired into this module, both sides are the fake backend; this
// still exercises the full comparator and harness pipeline, and is where a
// real native/WASM BackendFactory would be substituted in.
func verify(casesDir string) error {
	cases, err := harness.LoadCaseDir(casesDir)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	h := harness.New(
		func() backend.Backend { return backend.NewFakeBackend() },
		func() backend.Backend { return backend.NewFakeBackend() },
	)
	results := h.RunAll(context.Background(), cases)
	fmt.Print(harness.Summary(results))

	code := harness.ExitCode(results)
	if code != 0 {
		return cli.Exit("verification failed", code)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "tspicectl",
		Usage: "run and verify SPICE backend cases against the fake reference backend",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "execute a single case file and print its result envelope",
				ArgsUsage: "CASE_FILE",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("expected exactly one case file argument", 2)
					}
					return run(cCtx.Args().First())
				},
			},
			{
				Name:      "verify",
				Usage:     "run every case in a directory and report mismatches",
				ArgsUsage: "CASES_DIR",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("expected exactly one cases directory argument", 2)
					}
					return verify(cCtx.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
