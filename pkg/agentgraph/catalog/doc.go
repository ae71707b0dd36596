/*
Package catalog holds the node templates an editor offers in its palette.

A template names a node kind and carries display metadata (label, icon,
color, category, description) plus optional form defaults. The catalog is
built once at startup and never changes afterwards:

	cat := catalog.Default()
	tmpl, ok := cat.Lookup(catalog.KindGreeting)

Catalog feeds can also be loaded from YAML, JSON or HCL with FromFile. An
HCL feed looks like:

	template "greeting" {
	  label    = "Greeting"
	  icon     = "hand"
	  color    = "#22c55e"
	  category = "conversation"
	  defaults = {
	    message = "Welcome to Acme Dental!"
	  }
	}
*/
package catalog
