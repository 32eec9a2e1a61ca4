package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"audioboard-go/board"
	"audioboard-go/types"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the button ladder voltage table",
	Run: func(cmd *cobra.Command, _ []string) {
		printTable(cmd.OutOrStdout(), []string{"ID", "Button", "Above mV", "Up to mV"}, thresholdRows())
	},
}

func thresholdRows() [][]string {
	rows := make([][]string, 0, board.ButtonTotalSteps)
	for i := 0; i < board.ButtonTotalSteps; i++ {
		id := types.ButtonID(i)
		rows = append(rows, []string{
			strconv.Itoa(i),
			id.Action().Label(),
			strconv.Itoa(board.ButtonSteps[i]),
			strconv.Itoa(board.ButtonSteps[i+1]),
		})
	}
	return rows
}
