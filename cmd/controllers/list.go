package controllers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"github.com/swinglab/pendctl/cmd/global"
	"github.com/swinglab/pendctl/internal/control"
	"github.com/swinglab/pendctl/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all available control laws and their tuning parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, descriptor := range control.Descriptors() {
			var params []string
			for _, parameter := range descriptor.Parameters {
				params = append(params, fmt.Sprintf("%s=%v", parameter.Name, parameter.Default))
			}
			rows = append(rows, []string{
				descriptor.Name,
				string(descriptor.Kind),
				descriptor.Description,
				strings.Join(params, ", "),
			})
		}

		tab := table.Table{
			Headers: []string{"Name", "Kind", "Description", "Parameters (defaults)"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		err := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printf("%s", buf.String())
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
