package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

func newSnapshotCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive and inspect normalized problems",
		Long: `Snapshot stores the normalized rendering of a problem in the archive under
the data directory. Stored snapshots are plain problem text and can be fed
back to check or render.`,
	}
	cmd.AddCommand(
		newSnapshotSaveCmd(o),
		newSnapshotListCmd(o),
		newSnapshotShowCmd(o),
		newSnapshotDeleteCmd(o),
	)
	return cmd
}

func newSnapshotSaveCmd(o *options) *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "save <problem-file>",
		Short: "Load a problem and archive its normalized rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			d, err := s.loadDomain()
			if err != nil {
				return err
			}
			text, err := readProblem(args[0])
			if err != nil {
				return err
			}
			rendered, report, err := s.normalize(d, text, "")
			if err != nil {
				return err
			}
			if label == "" {
				label = report.Problem
			}

			archive, err := s.attachArchive()
			if err != nil {
				return err
			}
			defer archive.Detach()

			id, err := archive.Save(label, d.Name(), rendered)
			if err != nil {
				return sysError("save snapshot: %w", err)
			}
			s.logger.Info("snapshot saved",
				zap.String("snapshot_id", id),
				zap.String("label", label),
				zap.Int("rejected", len(report.Rejected)))
			if s.json {
				return s.printJSON(map[string]any{"snapshot_id": id, "report": report})
			}
			fmt.Fprintln(s.out, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "snapshot label (default: the problem name)")
	return cmd
}

func newSnapshotListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			archive, err := s.attachArchive()
			if err != nil {
				return err
			}
			defer archive.Detach()

			snaps, err := archive.List()
			if err != nil {
				return sysError("list snapshots: %w", err)
			}
			if s.json {
				if snaps == nil {
					snaps = []types.Snapshot{}
				}
				return s.printJSON(snaps)
			}
			w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tDOMAIN\tCREATED")
			for _, sn := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sn.SnapshotID, sn.Label, sn.Domain,
					sn.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newSnapshotShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Print an archived problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			archive, err := s.attachArchive()
			if err != nil {
				return err
			}
			defer archive.Detach()

			snap, err := archive.Get(args[0])
			if err != nil {
				return snapshotError(args[0], err)
			}
			if s.json {
				return s.printJSON(snap)
			}
			fmt.Fprint(s.out, snap.Problem)
			return nil
		},
	}
}

func newSnapshotDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Remove an archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			archive, err := s.attachArchive()
			if err != nil {
				return err
			}
			defer archive.Detach()

			if err := archive.Delete(args[0]); err != nil {
				return snapshotError(args[0], err)
			}
			s.logger.Info("snapshot deleted", zap.String("snapshot_id", args[0]))
			fmt.Fprintf(s.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

// snapshotError classifies archive lookup failures.
func snapshotError(id string, err error) error {
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		return userError("snapshot %s: %w", id, err)
	}
	return sysError("snapshot %s: %w", id, err)
}
