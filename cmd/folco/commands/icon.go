package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/ipc"
)

var iconGetJSON bool

func init() {
	iconGetCmd.Flags().BoolVar(&iconGetJSON, "json", false,
		"print the payload exactly as a front end receives it")
	iconCmd.AddCommand(iconGetCmd)
	rootCmd.AddCommand(iconCmd)
}

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Inspect the folder icon",
	Long: `Inspect the folder icon folco serves, without starting a server.

Each subcommand builds the icon state from the current configuration and
invokes get_folder_icon_base once.`,
	Example: `  folco icon get
  folco icon export --dir ./icons
  folco icon preview --size 32`,
}

var iconGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Invoke get_folder_icon_base once",
	Long: `Invoke get_folder_icon_base once and print the result.

By default a table of the images is printed. With --json the raw payload is
printed: {"images":[{"width","height","scale","format","data"}]} where data
is base64-encoded PNG.`,
	Example: `  # Summary table
  folco icon get

  # Raw payload
  folco icon get --json | jq '.images[] | {width, scale}'

See Also: folco icon export, folco serve`,
	RunE: runIconGet,
}

func runIconGet(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, commandLogger(cmd))
	if err != nil {
		return err
	}

	resp, payload, err := fetchIconBase(cmd.Context(), a)
	if err != nil {
		return err
	}
	return writeIconGet(cmd.OutOrStdout(), resp, payload, iconGetJSON)
}

// writeIconGet prints a payload as indented JSON or as a table.
func writeIconGet(w io.Writer, resp ipc.Response, payload *icon.SerializableBase, asJSON bool) error {
	if asJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, resp.Data, "", "  "); err != nil {
			return errors.Wrap(err, "formatting payload")
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tSCALE\tPIXELS\tFORMAT\tBYTES")
	var total int
	for _, img := range payload.Images {
		fmt.Fprintf(tw, "%d\t@%gx\t%dx%d\t%s\t%d\n",
			img.LogicalSize(), img.Scale, img.Width, img.Height, img.Format, len(img.Data))
		total += len(img.Data)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d image(s), %d bytes\n", len(payload.Images), total)
	return nil
}
