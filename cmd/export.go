package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/emicklei/dot"
	sw "github.com/filanov/stateswitch"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	json bool
}

var (
	exportFlagSet = &exportFlags{}
)

var cmdExportStatemachine = &cobra.Command{
	Use:   "export-statemachine [--json]",
	Short: "Export the request outcome statemachine as a mermaid graph, or JSON",
	Run: func(_ *cobra.Command, _ []string) {
		exportStatemachine()
	},
}

func asGraph(s *sw.StateMachineJSON) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	nodes := map[string]dot.Node{}

	for _, transition := range s.TransitionRules {
		_, exists := nodes[transition.DestinationState]
		if !exists {
			nodes[transition.DestinationState] = g.Node(transition.DestinationState)
		}

		for _, sourceState := range transition.SourceStates {
			_, exists := nodes[sourceState]
			if !exists {
				nodes[sourceState] = g.Node(sourceState)
			}

			g.Edge(nodes[sourceState], nodes[transition.DestinationState], transition.Name)
		}
	}

	return g
}

func outcomeStatemachine() (string, error) {
	j, err := operation.DescribeAsJSON()
	if err != nil {
		return "", err
	}

	if exportFlagSet.json {
		return string(j), nil
	}

	t := &sw.StateMachineJSON{}
	if err := json.Unmarshal(j, t); err != nil {
		return "", err
	}

	return dot.MermaidGraph(asGraph(t), dot.MermaidTopDown), nil
}

func exportStatemachine() {
	out, err := outcomeStatemachine()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out)
}

func init() {
	cmdExportStatemachine.PersistentFlags().BoolVarP(&exportFlagSet.json, "json", "", false, "export the statemachine in the JSON format")

	rootCmd.AddCommand(cmdExportStatemachine)
}
