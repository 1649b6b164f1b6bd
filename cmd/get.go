package cmd

import (
	"fmt"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/jwalton/tabdl/internal/log"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/tabdl"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Download tabular data",
	Example: heredoc.Doc(`
		# Download a CSV file and print a summary
		tabdl get https://example.com/data.csv

		# Extract the first table from an HTML page, with a payload digest
		tabdl get --format html --checksum https://example.com/report.html

		# Save the raw file to disk instead of parsing it
		tabdl get --save data.csv https://example.com/data.csv
	`),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("requires a URL to download from")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		url := args[0]

		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			log.LogFatal(err)
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			log.LogFatal(err)
		}

		withChecksum, err := cmd.Flags().GetBool("checksum")
		if err != nil {
			log.LogFatal(err)
		}

		saveFile, err := cmd.Flags().GetString("save")
		if err != nil {
			log.LogFatal(err)
		}

		outDir, err := cmd.Flags().GetString("out")
		if err != nil {
			log.LogFatal(err)
		}

		logger := log.NewLogger(verbose)
		reporter := getReporter(verbose)

		if saveFile != "" || outDir != "" {
			saveRawFile(url, saveFile, outDir, logger, reporter)
			return
		}

		options := tabdl.FetchOptions{
			Format:   tabdl.Format(format),
			Checksum: withChecksum,
		}

		logger.Info("Fetching " + url)
		record := tabdl.Fetch(url, options, reporter)
		reporter.Done()

		if record.Success {
			logger.Info(record.Message)
		} else {
			logger.Log(record.Message, log.LevelError)
		}

		fmt.Println(record.Summary())
		exit(record.ExitCode)
	},
}

// saveDestination works out the file to save a raw download to.  An
// explicit --save path wins; otherwise the filename comes from the URL.
// A relative result is joined with the --out directory.
func saveDestination(rawURL string, saveFile string, outDir string) (string, error) {
	filename := saveFile

	if filename == "" {
		u, err := neturl.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("error parsing URL: %w", err)
		}
		filename = path.Base(u.Path)
		if filename == "" || filename == "." || filename == "/" {
			return "", fmt.Errorf("could not determine a filename for %s", rawURL)
		}
	}

	if outDir != "" && !filepath.IsAbs(filename) {
		filename = filepath.Join(outDir, filename)
	}

	return filename, nil
}

// saveRawFile downloads the resource straight to disk, via grab, without
// parsing it.  The process exit code still follows the outcome contract.
func saveRawFile(url string, saveFile string, outDir string, logger *log.Logger, reporter tabdl.FetchReporter) {
	filename, err := saveDestination(url, saveFile, outDir)
	if err != nil {
		log.LogFatal(err)
	}

	// Make sure the destination directory exists.
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.LogFatal(err)
		}
	}

	client := download.NewClient()
	reporter.FetchStart(url)

	resp, err := client.SaveFile(url, filename)
	if err == nil {
		err = resp.Poll(200*time.Millisecond, tabdl.NewDownloadProgressWrapper(reporter, url))
	}

	record := outcomeForSave(err, filename)
	reporter.FetchEnd(url, record)
	reporter.Done()

	if !record.Success {
		logger.Log(record.Message, log.LevelError)
	}

	fmt.Println(record.Summary())
	exit(record.ExitCode)
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("format", "f", "auto", "Payload format: auto, csv, or html")
	getCmd.Flags().Bool("checksum", false, "Compute a BLAKE3 digest of the payload")
	getCmd.Flags().StringP("save", "s", "", "Save the raw payload to this file instead of parsing it")
	getCmd.Flags().StringP("out", "o", "", "Directory to save files in (implies --save with a name from the URL)")
}
