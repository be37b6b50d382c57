// Package io reads relationship networks from the file formats produced by
// the data pipeline and writes laid-out graphs back to JSON.
//
// # Formats
//
// Three input formats are supported. [Import] picks one from the file
// extension and, for JSON, from the document shape.
//
// Native JSON, also produced by [WriteJSON]:
//
//	{
//	  "nodes": [{"key": "a", "label": "Acme", "category": "company", "importance": 3, "x": 1.5, "y": -2}],
//	  "edges": [{"source": "a", "target": "b", "qualifier": 49}]
//	}
//
// Cosmograph JSON, where node colour encodes the category and ids may be
// numbers:
//
//	{
//	  "nodes": [{"id": 1, "label": "Ana", "color": "#800080", "size": 12}],
//	  "links": [{"source": 1, "target": 2, "qualificacao_socio": 22}]
//	}
//
// Edge-list CSV with a header row. Only source and target are required:
//
//	source,target,qualificacao_socio
//	ANA SOUZA,REAG CAPITAL,49
//
// # Drops
//
// Readers never reject a document because a record is unusable. Records are
// handed to [graph.Load] or [graph.LoadEdges], which drop and count them in
// the returned [graph.LoadReport]. Errors are returned only when the document
// itself cannot be decoded.
//
// # Qualifiers
//
// [QualifierText] maps relationship qualifier codes to their registry
// descriptions. Code 0 ("not reported") maps to the empty string so it is
// never drawn.
package io
