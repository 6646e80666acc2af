package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imaginarium/internal/verify"
)

var (
	queryKind  string
	queryCount int
)

var queryCmd = &cobra.Command{
	Use:   "query [predicate] [args]...",
	Short: "Generate an invention and query its fact store",
	Long: `Generates an invention and queries the exported facts. Predicates:
is_a(Individual, Kind), adj(Individual, Adjective, Truth),
holds(Verb, Subject, Object). Empty or "_" arguments are wildcards.

Example:
  imag query --root cat is_a _ persian
  imag query --root person holds love`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryKind, "root", "", "root kind to generate (required)")
	queryCmd.Flags().IntVar(&queryCount, "count", 1, "number of individuals")
	_ = queryCmd.MarkFlagRequired("root")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ont, _ := newSession()
	inv, err := generateInvention(ont, queryKind, nil, queryCount, 0)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("no invention satisfies the ontology")
	}
	checker := verify.NewChecker(inv)
	atoms, err := checker.Query(args[0], args[1:]...)
	if err != nil {
		return err
	}
	for _, atom := range atoms {
		fmt.Println(atom.String())
	}
	fmt.Printf("%d facts\n", len(atoms))
	return nil
}
