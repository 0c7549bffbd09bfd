package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and the snapshot archive",
		Long: "Init writes config.yaml to the configuration directory if it is missing,\n" +
			"recording the resolved data directory, domain file and log level, then\n" +
			"creates the snapshot archive in the data directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return runInit(s)
		},
	}
}

func runInit(s *session) error {
	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}
	written, err := writeConfigIfMissing(s.configDir, s.config)
	if err != nil {
		return sysError("write config: %w", err)
	}

	archive, err := s.attachArchive()
	if err != nil {
		return err
	}
	if err := archive.Detach(); err != nil {
		return sysError("finalize archive: %w", err)
	}

	if written {
		fmt.Fprintf(s.out, "Wrote %s\n", filepath.Join(s.configDir, configFileExt))
	}
	fmt.Fprintf(s.out, "Snapshot archive ready in %s\n", s.config.DataDir)
	return nil
}
