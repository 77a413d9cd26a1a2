// Package graph provides the dependency graph of configuration options.
//
// Construction happens in two phases. A Builder accepts nodes one at a time,
// each with its direct dependencies. A dependency may name an option that is
// inserted later; the link stays outstanding until then. Sealing the builder
// checks that no link is outstanding and that the dependencies are acyclic,
// and yields an immutable Graph:
//
//	b := graph.NewBuilder()
//	_ = b.Insert("NET_HTTP", "NET")
//	_ = b.Insert("NET")
//	g, err := b.Seal()
//
// # Querying the Graph
//
// A sealed graph answers transitive questions in both directions:
//
//	deps, _ := g.DependenciesOf("NET_HTTP")      // options NET_HTTP needs
//	users, _ := g.DependentVertices("NET")       // options that need NET
//	path, _ := g.Path("NET_HTTP", "NET")         // shortest chain between two options
//
// # Output Formats
//
//	jsonBytes, _ := g.ToJSON()
//	_ = g.ToDOT(os.Stdout)
//	textString := g.ToText()
package graph
