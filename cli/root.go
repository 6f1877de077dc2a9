package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the n8n command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "n8n",
		Short:         "Headless workflow execution runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExecuteCommand(app))
	return root
}

// Execute builds a default App from the environment and runs the
// command tree.
func Execute() error {
	return NewRootCommand(NewApp()).Execute()
}
