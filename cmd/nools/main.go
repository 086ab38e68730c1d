package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/nools/internal/demoflows"
)

var fibonacciN int

var rootCmd = &cobra.Command{
	Use:   "nools",
	Short: "CLI tool for running nools rule flows",
	Long:  `A command-line interface for exercising the bundled nools example flows.`,
}

var runCmd = &cobra.Command{
	Use:   "run <flow>",
	Short: "Run a bundled example flow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "hello-world":
			return demoflows.RunHelloWorld(os.Stdout)
		case "fibonacci":
			return demoflows.RunFibonacci(os.Stdout, fibonacciN)
		case "state-machine":
			return demoflows.RunStateMachine(os.Stdout)
		default:
			return fmt.Errorf("unknown flow %q (want hello-world, fibonacci, or state-machine)", args[0])
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled example flows",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("hello-world   asserts one fact, fires one rule")
		fmt.Println("fibonacci     builds a sequence by modifying one fact repeatedly")
		fmt.Println("state-machine walks A -> B -> C -> D via agenda-group focus")
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&fibonacciN, "n", 15, "number of fibonacci terms to print")
	rootCmd.AddCommand(runCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
