// Package diagram reads and writes pool documents and computed layouts.
//
// # Overview
//
// A [Document] is the serialized form of one pool: its geometry, its
// settings and the full lane and milestone trees. Documents are the input of
// every poolkit command and of the HTTP API. They can be stored as JSON or
// TOML; the format is chosen by file extension.
//
// # JSON Format
//
//	{
//	  "width": 800,
//	  "height": 400,
//	  "padding": {"top": 0, "left": 0, "right": 0, "bottom": 0},
//	  "header_size": 30,
//	  "auto_resize": true,
//	  "lanes": [
//	    {"id": "plan", "label": "Plan", "size": 100},
//	    {"label": "Build", "sublanes": [{"label": "Backend"}, {"label": "Frontend"}]}
//	  ],
//	  "milestones": [{"label": "Q1"}, {"label": "Q2", "size": 200}]
//	}
//
// Lanes and milestones without "size" are flexible. Omitted "width" and
// "height" fall back to the pool defaults. "header_size" and
// "milestones_size" are optional too.
//
// # TOML Format
//
// The same fields, using arrays of tables for lanes:
//
//	width = 800
//	height = 400
//
//	[[lanes]]
//	id = "plan"
//	size = 100.0
//
//	[[lanes]]
//	label = "Build"
//
//	  [[lanes.sublanes]]
//	  label = "Backend"
//
// # Errors
//
// Malformed lane or milestone entries, including values of the wrong type,
// are reported as STRUCTURAL errors, the same code the engine uses for
// duplicate ids and invalid sizes. Other decoding failures are
// INVALID_FORMAT.
//
// # Layouts
//
// [MarshalLayout] and [UnmarshalLayout] encode a computed [pool.Layout] as
// JSON. This is the form cached by the pipeline and returned by the HTTP
// API.
package diagram
