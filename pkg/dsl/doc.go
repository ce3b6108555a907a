/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing component trees.

It allows hosts to define UI hierarchies using a type-safe, fluent builder pattern
instead of relying on external YAML files. This is particularly useful for dynamic tree
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/arborui/arbor"
		"github.com/arborui/arbor/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Add("checkout").Kind("container").Disabled()

		b.Add("pay").Kind("button").Under("checkout").
			Channel("click", "dom-event")

		b.Add("status").Kind("label").Under("checkout").
			AlwaysAllow("refresh", "property-sync")

		snap, err := b.Build()
		if err != nil {
			// ...
		}

		// The resulting snapshot restores into a live session.
		sess, err := arbor.Restore(snap)
		// ...
		_ = sess
	}
*/
package dsl
