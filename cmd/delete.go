package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a logged activity by id",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return usageErr(fmt.Errorf("invalid id %q", args[0]))
	}
	if err := env.store.Remove(cmd.Context(), id); err != nil {
		return storageErr(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
	return nil
}
