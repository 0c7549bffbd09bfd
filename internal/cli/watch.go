package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/contingent/internal/domain"
	"github.com/mesh-intelligence/contingent/internal/kb"
	"github.com/mesh-intelligence/contingent/internal/pddl"
	"github.com/mesh-intelligence/contingent/internal/problem"
)

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <problem-file>",
		Short: "Reload a problem whenever it changes and report goal satisfaction",
		Long: `Watch loads the problem, prints a status line, and repeats each time the
file is written, created or renamed into place. It runs until interrupted.`,
		Args: cobra.ExactArgs(1),
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
			return s.watch(cmd.Context(), d, args[0])
		},
	}
}

// watch reloads path into one shared knowledge base until ctx is done.
func (s *session) watch(ctx context.Context, d *domain.Domain, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return userError("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return sysError("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return sysError("watch %s: %w", filepath.Dir(abs), err)
	}

	store := kb.NewSynchronized(kb.New(d, kb.WithLogger(s.logger)))
	s.reload(store, d, abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			s.logger.Debug("problem changed", zap.String("path", abs), zap.String("op", ev.Op.String()))
			s.reload(store, d, abs)
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(werr))
		}
	}
}

// reload replaces the contents of store with the problem at path and
// prints one status line. Failures are reported and the previous
// contents are kept.
func (s *session) reload(store *kb.Synchronized, d *domain.Domain, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("read problem", zap.String("path", path), zap.Error(err))
		return
	}

	text := string(data)
	p, err := pddl.Parse(text)
	if err == nil {
		err = p.MatchDomain(d.Name())
	}
	var report problem.LoadReport
	if err == nil {
		store.Update(func(k *kb.KnowledgeBase) {
			k.ClearKnowledge()
			report, err = problem.Load(k, d, text, s.logger)
		})
	}
	if err != nil {
		s.logger.Warn("load problem", zap.String("path", path), zap.Error(err))
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	res := checkResult{Report: report, GoalSatisfied: store.IsCurrentGoalSatisfied()}
	if s.json {
		line, _ := json.Marshal(res)
		fmt.Fprintln(s.out, string(line))
		return
	}
	fmt.Fprintf(s.out, "%s: %d rejected, goal satisfied: %t\n",
		report.Problem, len(report.Rejected), res.GoalSatisfied)
}
