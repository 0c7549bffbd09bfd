package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/contingent/pkg/tree"
	"github.com/mesh-intelligence/contingent/pkg/types"
)

const domainYAML = `
name: patrol
types:
  - name: robot
  - name: waypoint
predicates:
  - name: robot_at
    params: [robot, waypoint]
`

func TestPublicConstructors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(domainYAML), 0o644))

	schema, err := LoadDomain(path)
	require.NoError(t, err)
	assert.Equal(t, "patrol", schema.Name())

	for name, store := range map[string]types.KnowledgeBase{
		"plain":        New(schema, zaptest.NewLogger(t)),
		"synchronized": NewSynchronized(schema, zaptest.NewLogger(t)),
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, store.AddInstance(types.Instance{Name: "r1", Type: "robot"}))
			require.True(t, store.AddInstance(types.Instance{Name: "wp1", Type: "waypoint"}))
			require.True(t, store.AddPredicate(types.NewPredicate("robot_at", "r1", "wp1")))

			g, err := tree.Parse("(robot_at r1 wp1)")
			require.NoError(t, err)
			assert.True(t, store.IsGoalSatisfied(g))
		})
	}
}
