package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskWithParent(id int32, name string, parentID *int32) *Task {
	return &Task{ID: id, Name: name, ParentID: parentID}
}

func int32Ptr(v int32) *int32 { return &v }

func TestBuildTaskForest(t *testing.T) {
	t.Run("flat list", func(t *testing.T) {
		forest := BuildTaskForest([]*Task{
			taskWithParent(1, "a", nil),
			taskWithParent(2, "b", nil),
		})

		require.Len(t, forest, 2)
		assert.Equal(t, "a", forest[0].Task.Name)
		assert.Equal(t, "b", forest[1].Task.Name)
		assert.Empty(t, forest[0].Children)
	})

	t.Run("nested children keep input order", func(t *testing.T) {
		forest := BuildTaskForest([]*Task{
			taskWithParent(1, "root", nil),
			taskWithParent(2, "first child", int32Ptr(1)),
			taskWithParent(3, "second child", int32Ptr(1)),
			taskWithParent(4, "grandchild", int32Ptr(2)),
		})

		require.Len(t, forest, 1)
		root := forest[0]
		require.Len(t, root.Children, 2)
		assert.Equal(t, "first child", root.Children[0].Task.Name)
		assert.Equal(t, "second child", root.Children[1].Task.Name)
		require.Len(t, root.Children[0].Children, 1)
		assert.Equal(t, "grandchild", root.Children[0].Children[0].Task.Name)
	})

	t.Run("orphan promoted to root", func(t *testing.T) {
		// Parent 99 is not in the input (deleted or filtered out).
		forest := BuildTaskForest([]*Task{
			taskWithParent(1, "root", nil),
			taskWithParent(2, "orphan", int32Ptr(99)),
		})

		require.Len(t, forest, 2)
		assert.Equal(t, "orphan", forest[1].Task.Name)
	})

	t.Run("self parent promoted to root", func(t *testing.T) {
		forest := BuildTaskForest([]*Task{
			taskWithParent(1, "loop", int32Ptr(1)),
		})

		require.Len(t, forest, 1)
		assert.Empty(t, forest[0].Children)
	})

	t.Run("empty input", func(t *testing.T) {
		forest := BuildTaskForest(nil)
		assert.NotNil(t, forest)
		assert.Empty(t, forest)
	})
}
