package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/tabdl/internal/log"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/spf13/cobra"
)

// infoCmd probes a URL with a HEAD request and prints what the server says
// about it, without downloading anything.
var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show information about a remote resource",
	Example: heredoc.Doc(`
		# Show the size, type, and resumability of a file
		tabdl info https://example.com/data.csv
	`),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("requires a URL to probe")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]

		client := download.NewClient()
		info, err := client.GetFileInfo(url)
		if err != nil {
			log.LogFatalf("Could not probe %s: %v", url, err)
		}

		fmt.Printf("URL:       %s\n", info.URL)
		if info.Size > -1 {
			fmt.Printf("Size:      %d bytes\n", info.Size)
		} else {
			fmt.Println("Size:      unknown")
		}
		if info.Filename != "" {
			fmt.Printf("Filename:  %s\n", info.Filename)
		}
		if info.MimeType != "" {
			fmt.Printf("Type:      %s\n", info.MimeType)
		}
		fmt.Printf("Resumable: %v\n", info.CanResume)
		if info.LastModified != nil {
			fmt.Printf("Modified:  %s\n", info.LastModified.Format("2006-01-02 15:04:05 MST"))
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
