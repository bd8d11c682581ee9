package cmd

import (
	"github.com/spf13/cobra"

	"github.com/heap-snapshot/internal/report"
	"github.com/heap-snapshot/internal/snapshot"
	apperrors "github.com/heap-snapshot/pkg/errors"
	"github.com/heap-snapshot/pkg/utils"
)

var (
	lookupFromStorage bool
	lookupID          int64
	lookupGlobal      bool
	lookupModules     bool
	lookupMaxEdges    int
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup FILE",
	Short: "Print one node and its references",
	Long: `Decode a snapshot and print the node with the given id together with
its outgoing and incoming edges. --global prints the global object and
--modules lists the module objects instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().BoolVar(&lookupFromStorage, "from-storage", false, "Treat the argument as a key in the configured storage")
	lookupCmd.Flags().Int64Var(&lookupID, "id", 0, "Node id to print")
	lookupCmd.Flags().BoolVar(&lookupGlobal, "global", false, "Print the global object")
	lookupCmd.Flags().BoolVar(&lookupModules, "modules", false, "List module objects")
	lookupCmd.Flags().IntVar(&lookupMaxEdges, "max-edges", 50, "Maximum edges listed per direction (0 lists all)")
	lookupCmd.MarkFlagsOneRequired("id", "global", "modules")
	lookupCmd.MarkFlagsMutuallyExclusive("id", "global", "modules")
}

func runLookup(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	name := args[0]

	source, err := newSnapshotSource(lookupFromStorage)
	if err != nil {
		return err
	}

	parser := snapshot.NewParser(&snapshot.ParserOptions{Logger: log})
	graph, err := source.parse(cmd.Context(), parser, name, log)
	if err != nil {
		return err
	}

	switch {
	case lookupModules:
		modules := graph.Modules()
		log.Info("=== Modules (%d) ===", len(modules))
		for _, m := range modules {
			log.Info("  @%d  %s, %d edges", m.ID, report.FormatBytes(m.SelfSize), m.EdgeCount)
		}
		return nil

	case lookupGlobal:
		global, err := graph.Global()
		if err != nil {
			return err
		}
		printNode(log, global)
		return nil

	default:
		node, ok := graph.Node(lookupID)
		if !ok {
			return apperrors.Newf(apperrors.CodeNotFound, "no node with id %d", lookupID)
		}
		printNode(log, node)
		return nil
	}
}

func printNode(log utils.Logger, n *snapshot.Node) {
	log.Info("=== Node @%d ===", n.ID)
	log.Info("  Type:       %s", n.Type)
	log.Info("  Name:       %s", n.Name)
	log.Info("  Self Size:  %s (%d bytes)", report.FormatBytes(n.SelfSize), n.SelfSize)
	log.Info("  Trace Node: %d", n.TraceNodeID)
	if detached, present := n.Detached(); present {
		log.Info("  Detached:   %t", detached)
	}
	log.Info("")

	out := n.OutEdges()
	log.Info("=== Outgoing (%d) ===", len(out))
	for i := range out {
		if lookupMaxEdges > 0 && i >= lookupMaxEdges {
			log.Info("  ... and %d more", len(out)-i)
			break
		}
		e := out[i]
		log.Info("  %-9s %-30s -> %s", e.Type, e.Name, e.To())
	}
	log.Info("")

	in := n.InEdges()
	log.Info("=== Incoming (%d) ===", len(in))
	for i, e := range in {
		if lookupMaxEdges > 0 && i >= lookupMaxEdges {
			log.Info("  ... and %d more", len(in)-i)
			break
		}
		log.Info("  %-9s %-30s <- %s", e.Type, e.Name, e.From())
	}
}
