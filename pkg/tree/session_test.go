package tree

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	fs := projectFS()
	s := NewSession(newTestBuilder(t, fs, Options{}))

	assert.Nil(t, s.Tree())
	_, err := s.Toggle("x", true)
	assert.ErrorIs(t, err, ErrNoTree)
	_, err = s.Reparse(appPath)
	assert.ErrorIs(t, err, ErrNoTree)

	root, err := s.Build("/proj/src/app/index.tsx")
	require.NoError(t, err)
	assert.Same(t, root, s.Tree())

	app := child(t, root, "App")
	_, err = s.Toggle(app.ID, true)
	require.NoError(t, err)
	assert.True(t, app.Expanded)

	_, err = s.Toggle("missing", true)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	n, err := s.Reparse(appPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, app.Expanded)
}

func TestSession_BuildFailureKeepsTree(t *testing.T) {
	s := NewSession(newTestBuilder(t, projectFS(), Options{}))

	root, err := s.Build("/proj/src/app/index.tsx")
	require.NoError(t, err)

	_, err = s.Build("/elsewhere/index.tsx")
	require.Error(t, err)
	assert.Same(t, root, s.Tree())
}

func TestSession_SetTreeFromJSON(t *testing.T) {
	fs := projectFS()
	s := NewSession(newTestBuilder(t, fs, Options{}))

	root, err := s.Build("/proj/src/app/index.tsx")
	require.NoError(t, err)
	child(t, child(t, root, "App"), "Header").Expanded = true

	data, err := json.Marshal(root)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parentList":[]`)
	assert.Contains(t, string(data), `"thirdParty":true`)

	var restored Node
	require.NoError(t, json.Unmarshal(data, &restored))

	other := NewSession(newTestBuilder(t, fs, Options{}))
	other.SetTree(&restored)
	assert.Equal(t, root, other.Tree())

	_, err = other.Reparse(appPath)
	require.NoError(t, err)
	assert.True(t, child(t, child(t, other.Tree(), "App"), "Header").Expanded)
}

func TestSession_SetTreeNormalizes(t *testing.T) {
	s := NewSession(newTestBuilder(t, projectFS(), Options{}))

	s.SetTree(&Node{ID: "r", FilePath: "/proj/src/app/index.tsx", Children: []*Node{{ID: "c"}}})

	s.Traverse(func(n *Node) {
		assert.NotNil(t, n.Children)
		assert.NotNil(t, n.Props)
		assert.NotNil(t, n.ParentList)
	})
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession(newTestBuilder(t, projectFS(), Options{}))
	root, err := s.Build("/proj/src/app/index.tsx")
	require.NoError(t, err)
	appID := child(t, root, "App").ID

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(appID, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.Reparse(headerPath)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	assert.True(t, child(t, s.Tree(), "App").Expanded)
}
