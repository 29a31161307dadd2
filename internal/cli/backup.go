package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
	"github.com/pfrederiksen/lovetrack/internal/storage"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		out      string
		passFlag string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all data",
		Long: `Write the relationship, events and trips to a pretty-printed JSON backup.
The default file name is lovetrack-backup-YYYY-MM-DD.json in the current directory;
use --out - to write to stdout. With a passphrase (--passphrase or $` + EnvPassphrase + `)
the backup is encrypted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			snap := sess.tracker.Snapshot()
			var payload []byte
			if pass := passphrase(passFlag); pass != "" {
				payload, err = storage.ExportEncrypted(snap, pass)
			} else {
				payload, err = storage.ExportSnapshot(snap)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = storage.BackupFilename(sess.tracker.Now())
			}
			if err := writeOutput(cmd.OutOrStdout(), out, payload); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s, %s to %s (%s)\n",
					plural(len(snap.Events), "event"), plural(len(snap.Trips), "trip"),
					out, humanize.Bytes(uint64(len(payload))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or - for stdout")
	cmd.Flags().StringVar(&passFlag, "passphrase", "", "Encrypt the backup with this passphrase")

	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		passFlag string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with a JSON backup",
		Long: `Read a backup written by export and replace the current relationship, events
and trips with it. Use - to read from stdin. A rejected backup leaves the data
untouched and exits with status 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			data, err := storage.ImportSnapshotWithPassphrase(raw, passphrase(passFlag))
			if err != nil {
				return rejected(err)
			}

			diff := model.Diff(sess.tracker.Snapshot(), data)
			if dryRun {
				return WriteDiff(cmd.OutOrStdout(), diff, format)
			}

			if err := sess.tracker.Replace(data); err != nil {
				return fmt.Errorf("applying backup: %w", err)
			}
			logger.Info("Backup imported", logger.Fields{
				"events": len(data.Events),
				"trips":  len(data.Trips),
			})

			if format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), diff)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s and %s for %s & %s\n",
				plural(len(data.Events), "event"), plural(len(data.Trips), "trip"),
				data.Relationship.MyName, data.Relationship.PartnerName)
			return nil
		},
	}

	cmd.Flags().StringVar(&passFlag, "passphrase", "", "Passphrase for an encrypted backup")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without saving")

	return cmd
}

// rejected converts an import failure into the user-facing message and exit code.
func rejected(err error) error {
	var ie *storage.ImportError
	if errors.As(err, &ie) {
		logger.Debug("Backup rejected", logger.Fields{"cause": ie.Error()})
		return &CodedError{Code: ExitRejected, Err: errors.New(ie.UserMessage())}
	}
	return err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return raw, nil
}

// writeOutput writes payload to path, or to stdout when path is "-".
func writeOutput(stdout io.Writer, path string, payload []byte) error {
	if path == "-" {
		_, err := stdout.Write(payload)
		if err == nil && len(payload) > 0 && payload[len(payload)-1] != '\n' {
			_, err = io.WriteString(stdout, "\n")
		}
		return err
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
