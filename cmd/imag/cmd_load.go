package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imaginarium/internal/ontology"
	"imaginarium/internal/parser"
)

var loadCmd = &cobra.Command{
	Use:   "load [file.gen]...",
	Short: "Parse definition files and report every error",
	Long: `Feeds the statements of each file through the parser in order,
collecting grammatical and ontology errors instead of stopping at the
first. Exits nonzero when any statement failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	ont := ontology.New()
	ont.DefinitionsDir = cfg.Definitions.Dir
	p := parser.New(ont)

	total := 0
	for _, path := range args {
		for _, err := range p.LoadFile(path, true) {
			fmt.Println(err)
			total++
		}
	}
	if total > 0 {
		return fmt.Errorf("%d statements failed", total)
	}
	fmt.Printf("loaded %d files: %d kinds, %d verbs\n",
		len(args), len(ont.Nouns()), len(ont.Verbs()))
	return nil
}
