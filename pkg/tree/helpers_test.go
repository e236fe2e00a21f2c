package tree

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/gnana997/comptree/pkg/util"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("node-%d", n)
	}
}

func newTestBuilder(t *testing.T, fs util.FileSystem, opts Options) *Builder {
	t.Helper()
	opts.FS = fs
	if opts.IDs == nil {
		opts.IDs = sequentialIDs()
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

// projectFS is a small app with an alias import, a relative import, a
// third-party provider, a JS file and a redux-connected component.
func projectFS() util.MapFileSystem {
	return util.MapFileSystem{
		"/proj/package.json": "{}",
		"/proj/src/app/index.tsx": `
import App from "../App";
import { Provider } from "react-redux";

export default function Root() {
  return <Provider store={store}><App /></Provider>;
}
`,
		"/proj/src/App.tsx": `
import Header from "@/components/Header";
import Footer from "./components/Footer";

export default function App() {
  return (
    <main>
      <Header title="Home" />
      <Footer year={2024} />
      <Header compact={true} />
    </main>
  );
}
`,
		"/proj/src/components/Header.tsx": `
import Logo from "./Logo";
import { connect } from "react-redux";

const Header = ({ title }) => <header><Logo size="sm" />{title}</header>;

export default connect(mapState)(Header);
`,
		"/proj/src/components/Logo.jsx": `export default function Logo() { return <img src="logo.png" />; }`,
		"/proj/src/components/Footer.tsx": `export default () => <footer />;`,
	}
}

// child returns the child of n with the given name.
func child(t *testing.T, n *Node, name string) *Node {
	t.Helper()
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	require.FailNowf(t, "child not found", "%s has no child %s", n.Name, name)
	return nil
}

// withoutIDs returns a copy of the tree with every ID cleared.
func withoutIDs(n *Node) *Node {
	c := n.Clone()
	Traverse(c, func(node *Node) { node.ID = "" })
	return c
}
