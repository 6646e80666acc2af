package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imaginarium/internal/verify"
)

var (
	testKind  string
	testCount int
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Generate an invention and run the registered existence tests",
	Long: `Generates an invention of the named root kind and evaluates every
"should exist" / "should not exist" statement against it.

Example:
  imag test --root cat --count 10`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testKind, "root", "", "root kind to generate (required)")
	testCmd.Flags().IntVar(&testCount, "count", 1, "number of individuals")
	_ = testCmd.MarkFlagRequired("root")
}

func runTest(cmd *cobra.Command, args []string) error {
	ont, _ := newSession()
	if len(ont.Tests()) == 0 {
		fmt.Println("no tests registered")
		return nil
	}
	inv, err := generateInvention(ont, testKind, nil, testCount, 0)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("no invention satisfies the ontology")
	}
	checker := verify.NewChecker(inv)
	failures := 0
	for _, r := range checker.RunTests() {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
			failures++
		}
		fmt.Printf("%-4s %s\n", status, r.Message)
	}
	if failures > 0 {
		return fmt.Errorf("%d tests failed", failures)
	}
	return nil
}
