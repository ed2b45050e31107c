// Package config loads the injector hierarchy file.
//
// The file is YAML:
//
//	version: "1"
//	packages: [binding-resolver/examples/shop]   # scanned for constructors
//	constructors:                                 # constructors not found in Go code
//	  - name: session.FromRequest
//	    key: "*shop.Session"
//	injector:
//	  name: app
//	  bindings:                                   # explicit bindings
//	    - key: "*shop.Config"
//	      deps: ["@primary *shop.DB"]
//	  requests: ["*shop.Checkout"]                # keys the injector hands out
//	  children:
//	    - name: request
//	      pinned: ["*shop.Cart"]                  # must be created in this injector
//	      expose: ["*shop.Cart"]                  # made visible to the parent
//
// A key is written as "Type" or "@qualifier Type", or as a mapping with key,
// qualifier, optional and lazy fields.
package config
