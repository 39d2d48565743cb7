// Package archive stores a SuperSet, and optionally the taper profile it
// is propagated along, as a single YAML document:
//
//	wavelength: 1.55e-06
//	itr: [1, 0.9, ...]
//	modes:
//	  - solver: 0
//	    binding: 0
//	    name: LP01
//	    beta: [...]
//	    index: [...]          # optional
//	    field:                # optional, one mesh per slice
//	      - {rows: 2, cols: 2, data: [...]}
//	    coupling:             # optional, towards other modes of the document
//	      - {solver: 0, binding: 1, values: [...]}
//	profile:                  # optional
//	  distance: [...]
//	  itr: [...]
//
// Modes are written in their active order. Coupling is written from both
// ends; Build restores it from the lower key's entry.
package archive
