package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/plugopt/worhpgo/internal/problem"
	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the benchmark problem catalog",
	RunE:  runProblems,
}

func init() {
	rootCmd.AddCommand(problemsCmd)
}

func runProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tEQ\tINEQ\tBOUNDS")
	fmt.Fprintln(w, "----\t---\t--\t----\t------")

	for _, name := range problem.Names() {
		prob, err := problem.ByName(name)
		if err != nil {
			return err
		}
		// Catalog problems use the same box on every dimension.
		lower, upper := prob.Bounds()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t[%g, %g]\n",
			prob.Name(), prob.Dim(), prob.NumEq(), prob.NumIneq(), lower[0], upper[0])
	}
	return w.Flush()
}
