package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imaginarium/internal/archive"
	"imaginarium/internal/generator"
	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

var (
	generateCount     int
	generateModifiers []string
	generateSave      bool
	generateSeed      int64
)

var generateCmd = &cobra.Command{
	Use:   "generate [kind]",
	Short: "Generate an invention of the named kind",
	Long: `Expands the requested individuals and their parts, compiles every
ontology rule to constraints, solves, and prints a description of each
individual.

Example:
  imag generate cat --count 3
  imag generate person --modifier friendly --save`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "number of individuals")
	generateCmd.Flags().StringArrayVarP(&generateModifiers, "modifier", "m", nil, "required adjective (repeatable)")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "persist the invention to the archive")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (0 = time-derived)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ont, _ := newSession()
	inv, err := generateInvention(ont, args[0], generateModifiers, generateCount, generateSeed)
	if err != nil {
		return err
	}
	if inv == nil {
		fmt.Println("no invention satisfies the ontology (solver gave up)")
		return nil
	}
	for _, ind := range inv.Individuals {
		if desc := inv.Description(ind); desc != "" {
			fmt.Println(desc)
		}
	}
	if generateSave {
		a, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Save(inv, args[0]); err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", inv.ID)
	}
	return nil
}

// generateInvention resolves the root kind and modifier names and runs one
// generation pass.
func generateInvention(ont *ontology.Ontology, kind string, modifiers []string, count int, seed int64) (*generator.Invention, error) {
	root := ont.LookupNoun(token.Tokenize(kind))
	if root == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	var mods []ontology.Literal
	for _, name := range modifiers {
		adj := ont.LookupAdjective(token.Tokenize(name))
		if adj == nil {
			return nil, fmt.Errorf("unknown adjective %q", name)
		}
		mods = append(mods, ontology.Pos(adj))
	}
	opts := generator.Options{
		Retries: cfg.Solver.Retries,
		Timeout: cfg.Solver.ParsedTimeout(),
		Seed:    seed,
	}
	logger.Debug("generating",
		zap.String("kind", kind), zap.Int("count", count),
		zap.Int("retries", opts.Retries))
	g := generator.New(ont, root, mods, count, opts)
	return g.Generate(context.Background())
}
