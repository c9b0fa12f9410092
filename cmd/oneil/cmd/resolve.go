package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/printer"
	"github.com/careweather/oneil/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve an Oneil model and its submodels/references",
	Long: `Resolve an Oneil model file: follow its use/from declarations,
detect circular model and parameter dependencies, and print the
resulting debug tree for every model loaded.`,
	Args: cobra.ExactArgs(1),
	RunE: resolveFile,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveFile(_ *cobra.Command, args []string) error {
	file := args[0]
	entry := modelPathFromFile(file)

	loader := resolver.NewLoader(newFsLoader(file), hostEnv{})
	coll, err := loader.Load(entry)
	if err != nil {
		return err
	}

	errCount := 0
	for _, path := range sortedModelPaths(coll) {
		model := coll.Models[path]
		fmt.Print(printer.Model(model))
		errCount += len(model.Errors)
	}

	if errCount > 0 {
		return fmt.Errorf("resolution found %d error(s)", errCount)
	}
	return nil
}

func modelPathFromFile(file string) ir.ModelPath {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return ir.ModelPath(base)
}

func sortedModelPaths(coll *ir.ModelCollection) []ir.ModelPath {
	paths := make([]ir.ModelPath, 0, len(coll.Models))
	for p := range coll.Models {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}
