// Package schema loads and validates declarative component tree definitions.
//
// A definition is a YAML document describing components, their nesting, their
// initial disabled flags, and the channels bound to them with per-channel
// override modes. Definitions replace annotation-style disabled-override
// markers with explicit configuration resolved at load time: unknown channel
// kinds or override modes fail validation, never message delivery.
//
// Basic usage:
//
//	def, err := schema.LoadFile("checkout.yaml")
//	if err != nil {
//	    // every validation failure, aggregated
//	}
//	snap := def.Snapshot()
//	sess, err := arbor.Restore(snap)
//
// Example definition:
//
//	session: checkout
//	components:
//	  - id: form
//	    kind: layout
//	    disabled: true
//	    channels:
//	      - name: submit
//	        kind: server-call
//	        mode: always-allow
//	    children:
//	      - id: name
//	        kind: textfield
//	        channels:
//	          - name: value
//	            kind: property-sync
package schema
