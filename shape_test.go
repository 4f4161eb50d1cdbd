package mongotx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platformd/mongotx/pkg/core"
)

func TestShapeLookups(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	lookup := map[string]core.ClassID{"space": classSpace, "owner": classUser}

	t.Run("joined target takes first array element", func(t *testing.T) {
		first := core.Doc{"_id": "space-1"}
		doc := core.Doc{
			"_id":          "task-1",
			"space":        "space-1",
			"space_lookup": []any{first, core.Doc{"_id": "space-2"}},
		}
		require.NoError(t, adapter.shapeLookups([]core.Doc{doc}, lookup))

		resolved := doc[core.LookupKey].(core.Doc)
		assert.Equal(t, first, resolved["space"])
		assert.NotContains(t, doc, "space_lookup")
	})

	t.Run("no joined match leaves entry absent", func(t *testing.T) {
		doc := core.Doc{"_id": "task-1", "space": "gone", "space_lookup": []any{}}
		require.NoError(t, adapter.shapeLookups([]core.Doc{doc}, lookup))

		resolved := doc[core.LookupKey].(core.Doc)
		assert.NotContains(t, resolved, "space")
	})

	t.Run("model target resolves from the cache", func(t *testing.T) {
		doc := core.Doc{"_id": "task-1", "owner": "user-1"}
		require.NoError(t, adapter.shapeLookups([]core.Doc{doc}, lookup))

		resolved := doc[core.LookupKey].(core.Doc)
		require.Contains(t, resolved, "owner")
		assert.Equal(t, "admin", resolved["owner"].(core.Doc)["name"])
	})

	t.Run("unknown model reference stays absent", func(t *testing.T) {
		doc := core.Doc{"_id": "task-1", "owner": "user-unknown"}
		require.NoError(t, adapter.shapeLookups([]core.Doc{doc}, lookup))

		resolved := doc[core.LookupKey].(core.Doc)
		assert.NotContains(t, resolved, "owner")
	})

	t.Run("driver array shape decodes too", func(t *testing.T) {
		doc := core.Doc{
			"_id":          "task-1",
			"space":        "space-1",
			"space_lookup": primitive.A{core.Doc{"_id": "space-1"}},
		}
		require.NoError(t, adapter.shapeLookups([]core.Doc{doc}, lookup))

		resolved := doc[core.LookupKey].(core.Doc)
		assert.Equal(t, core.Doc{"_id": "space-1"}, resolved["space"])
	})
}
