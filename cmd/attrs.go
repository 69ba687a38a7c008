package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/marcus/sheet/pkg/sheet"
)

// attributeHelp describes each declarative attribute.
var attributeHelp = map[string]string{
	sheet.AttrOpen:             "present: sheet is open (minimizable sheets minimize instead of closing)",
	sheet.AttrNoResize:         "present: dragging is disabled",
	sheet.AttrMinimize:         "present: sheet can rest minimized; snap threshold is 30% of the viewport",
	sheet.AttrSnapToTop:        "present: open sheet fills the viewport below the handle",
	sheet.AttrMinContentHeight: "number: height kept visible when minimized (default header height, else 34)",
}

var attrNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")).Width(20)

var attrsCmd = &cobra.Command{
	Use:   "attrs",
	Short: "List the declarative sheet attributes",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		asJSON, _ := c.Flags().GetBool("json")
		out := c.OutOrStdout()
		if asJSON {
			type attr struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			var list []attr
			for _, name := range sheet.KnownAttributes() {
				list = append(list, attr{Name: name, Description: attributeHelp[name]})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		for _, name := range sheet.KnownAttributes() {
			fmt.Fprintf(out, "%s %s\n", attrNameStyle.Render(name), attributeHelp[name])
		}
		return nil
	},
}

func init() {
	attrsCmd.Flags().Bool("json", false, "print as JSON")
	rootCmd.AddCommand(attrsCmd)
}
