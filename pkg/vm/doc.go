// Package vm assembles a bound view: it wraps the data tree, installs
// computed properties and methods, proxies reads and writes to the store and
// compiles the template.
//
// # Usage
//
//	doc, _ := dom.ParseString(`<div id="app"><p>{{ greeting }}</p><input v-model="name"></div>`)
//	v, err := vm.New(ctx, vm.Options{
//	    El:       "#app",
//	    Document: doc,
//	    Data:     map[string]any{"name": "Ada"},
//	    Computed: map[string]vm.Computed{
//	        "greeting": vm.ComputedExpr(`"Hello, " + name`),
//	    },
//	    Methods: map[string]vm.Method{
//	        "reset": func(v *vm.VM, e *dom.Event) error { return v.Set("name", "") },
//	    },
//	})
//
// Computed properties are evaluated on every access and are never cached.
// Reads they make are attributed to the tracker evaluating them, so a
// binding on a computed property updates when its inputs change.
//
// Expression computeds (ComputedExpr) are evaluated with expr-lang against a
// snapshot of the data and therefore depend on every data property.
package vm
