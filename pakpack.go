package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pakpack <output.pak> <path> [path ...]",
		Short: "Pack files and directories into a pak archive",
		Long: `pakpack compresses every regular file found under the given paths into a
single pak archive. Hidden files and directories (names starting with '.')
are skipped. Files are stored in the order the directories list them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPack,
	}

	cmd.Flags().BoolP("verbose", "v", false, "log skipped entries")
	cmd.Flags().BoolP("quiet", "q", false, "only log warnings and errors")
	cmd.Flags().Bool("strip-root", false, "store paths relative to each root instead of as given")
	cmd.Flags().Bool("follow-symlinks", false, "follow symbolic links instead of skipping them")
	cmd.Flags().String("path-encoding", "", "charset for stored paths, e.g. GBK or EUC-KR (default: as given)")

	return cmd
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pakpack <output.pak> <path> [path ...]")
}

func newLogger(w io.Writer, cfg config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "pakpack",
	})

	switch {
	case cfg.Quiet:
		logger.SetLevel(log.WarnLevel)
	case cfg.Verbose:
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

func runPack(cmd *cobra.Command, args []string) error {
	// Not enough arguments is not an error: usage goes out and the exit
	// status stays 0, as it always has.
	if len(args) < 2 {
		printUsage(cmd.OutOrStdout())
		return nil
	}

	v, err := bindConfig(cmd)
	if err != nil {
		return err
	}
	cfg := loadConfig(v)

	paths, err := newPathEncoder(cfg.PathEncoding)
	if err != nil {
		return err
	}

	p := &pakpack{
		collect: collectOptions{
			stripRoot:      cfg.StripRoot,
			followSymlinks: cfg.FollowSymlinks,
		},
		paths:  paths,
		logger: newLogger(cmd.OutOrStdout(), cfg),
	}

	_, err = p.archive(args[1:], args[0])
	return err
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		log.NewWithOptions(os.Stdout, log.Options{Prefix: "pakpack"}).Error("packing failed", "err", err)
		os.Exit(1)
	}
}
