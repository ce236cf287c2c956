package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/9wick/enbu/flow"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recognised command tag",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

var allTags = []flow.Tag{
	flow.TagOpen, flow.TagClick, flow.TagDblClick, flow.TagHover, flow.TagFocus,
	flow.TagCheck, flow.TagUncheck, flow.TagType, flow.TagFill, flow.TagSelect,
	flow.TagPress, flow.TagKeyDown, flow.TagKeyUp, flow.TagScroll, flow.TagScrollIntoView,
	flow.TagWait, flow.TagScreenshot, flow.TagEval, flow.TagAssertVisible,
	flow.TagAssertNotVisible, flow.TagAssertEnabled, flow.TagAssertChecked,
}

func runList(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(allTags))
	for _, t := range allTags {
		names = append(names, string(t))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
