package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the log file configured by log.file",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

var (
	logsFollow bool
	logsLines  int
)

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	logPath := cfg.Log.File
	if logPath == "" {
		fmt.Println("logging to stderr (set log.file to keep a log file)")
		return nil
	}
	if _, err := os.Stat(logPath); errors.Is(err, os.ErrNotExist) {
		fmt.Println("no log file found (the server may not have run yet)")
		return nil
	}

	tailArgs := []string{"-n", strconv.Itoa(logsLines)}
	if logsFollow {
		tailArgs = append(tailArgs, "-f")
	}
	tailArgs = append(tailArgs, logPath)

	tailCmd := exec.CommandContext(cmd.Context(), "tail", tailArgs...)
	tailCmd.Stdout = os.Stdout
	tailCmd.Stderr = os.Stderr
	if err := tailCmd.Run(); err != nil {
		return fmt.Errorf("tail failed: %w", err)
	}
	return nil
}
