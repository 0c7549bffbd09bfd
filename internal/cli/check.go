package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/contingent/internal/domain"
	"github.com/mesh-intelligence/contingent/internal/kb"
	"github.com/mesh-intelligence/contingent/internal/problem"
)

// checkResult is the outcome of loading one problem.
type checkResult struct {
	Report        problem.LoadReport `json:"report"`
	GoalSatisfied bool               `json:"goal_satisfied"`
}

func newCheckCmd(o *options) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <problem-file>",
		Short: "Load a problem and report rejections and goal satisfaction",
		Long: `Check loads the problem into a fresh knowledge base, item by item through
the same validation as direct calls. It prints what was accepted, what was
rejected and whether the goal already holds.

Example:
  kbctl check --domain delivery.yaml morning.pddl
  kbctl check --strict --json morning.pddl`,
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
			text, err := readProblem(args[0])
			if err != nil {
				return err
			}
			res, err := s.check(d, text)
			if err != nil {
				return err
			}
			if err := s.printCheck(res); err != nil {
				return err
			}
			if strict && !res.Report.Clean() {
				return userError("%d item(s) rejected", len(res.Report.Rejected))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when any item is rejected")
	return cmd
}

// check loads text into a fresh knowledge base.
func (s *session) check(d *domain.Domain, text string) (checkResult, error) {
	k := kb.New(d, kb.WithLogger(s.logger))
	report, err := problem.Load(k, d, text, s.logger)
	if err != nil {
		return checkResult{}, userError("load problem: %w", err)
	}
	return checkResult{Report: report, GoalSatisfied: k.IsCurrentGoalSatisfied()}, nil
}

func (s *session) printCheck(res checkResult) error {
	if s.json {
		return s.printJSON(res)
	}
	r := res.Report
	fmt.Fprintf(s.out, "problem: %s (domain %s)\n", r.Problem, r.Domain)
	goal := "no goal"
	if r.GoalSet {
		goal = "goal set"
	}
	fmt.Fprintf(s.out, "loaded: %d instances, %d predicates, %d functions, %d conditionals, %s\n",
		r.Instances, r.Predicates, r.Functions, r.Conditionals, goal)
	for _, rej := range r.Rejected {
		fmt.Fprintf(s.out, "rejected %s: %s\n", rej.Kind, rej.Item)
	}
	fmt.Fprintf(s.out, "goal satisfied: %t\n", res.GoalSatisfied)
	return nil
}

func newRenderCmd(o *options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "render <problem-file>",
		Short: "Load a problem and print it back in normalized form",
		Long: `Render loads the problem and prints what the knowledge base accepted:
names kept as written, objects grouped by type, domain constants omitted, and
one-of groups with a single candidate turned into facts.`,
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
			text, err := readProblem(args[0])
			if err != nil {
				return err
			}
			out, report, err := s.normalize(d, text, name)
			if err != nil {
				return err
			}
			if s.json {
				return s.printJSON(map[string]any{"report": report, "problem": out})
			}
			fmt.Fprint(s.out, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "problem name (default: the name in the file)")
	return cmd
}

// normalize loads text and renders the accepted contents.
func (s *session) normalize(d *domain.Domain, text, name string) (string, problem.LoadReport, error) {
	k := kb.New(d, kb.WithLogger(s.logger))
	report, err := problem.Load(k, d, text, s.logger)
	if err != nil {
		return "", report, userError("load problem: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = report.Problem
	}
	return problem.Render(k, d, name), report, nil
}
