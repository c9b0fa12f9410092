package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/careweather/oneil/internal/eval"
	"github.com/careweather/oneil/internal/resolver"
)

var checkLimits bool

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Resolve and evaluate every parameter of an Oneil model",
	Long: `Resolve an Oneil model file and evaluate each of its parameters,
printing the resulting value. Evaluation halts at the first error
within a parameter's expression (unlike parsing/resolution, which
recover and keep going).`,
	Args: cobra.ExactArgs(1),
	RunE: evalFile,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().BoolVar(&checkLimits, "check-limits", false, "fail if a parameter's value violates its declared limits")
}

func evalFile(_ *cobra.Command, args []string) error {
	file := args[0]
	entry := modelPathFromFile(file)

	loader := resolver.NewLoader(newFsLoader(file), hostEnv{})
	coll, err := loader.Load(entry)
	if err != nil {
		return err
	}

	model := coll.Models[entry]
	if model.HasError {
		for _, e := range model.Errors {
			fmt.Println("resolution error:", e)
		}
		return fmt.Errorf("cannot evaluate %s: resolution failed", entry)
	}

	var opts []eval.Option
	if checkLimits {
		opts = append(opts, eval.WithLimitChecking(true))
	}
	session := eval.NewSession(coll, hostEnv{}, hostEnv{}, opts...)

	names := make([]string, 0, len(model.Parameters))
	for name := range model.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		v, err := session.EvalParameter(entry, name)
		if err != nil {
			failed++
			fmt.Printf("%s: error: %v\n", name, err)
			continue
		}
		fmt.Printf("%s = %s\n", name, v)
	}

	if failed > 0 {
		return fmt.Errorf("evaluation failed for %d parameter(s)", failed)
	}
	return nil
}
