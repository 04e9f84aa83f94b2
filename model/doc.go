// Package model defines the value types shared by the extraction pipeline.
//
// The types fall into three groups:
//
//   - Geometry: [Point], [BBox] - positions of text and rules on a page.
//   - Input: [Page], [TextFragment], [Rule] - the layout primitives supplied
//     by a document loader. Pages are read-only to the pipeline.
//   - Pipeline entities: [Candidate] (a raw table located by one detection
//     strategy), [Signature] (a content fingerprint used for deduplication),
//     and [StructuredTable] (the cleaned, column-named result of building a
//     candidate).
//
// A Candidate is created by a detection strategy and never mutated afterwards.
// A StructuredTable is created once by the builder and is immutable; the
// filtering and scoring stages only attach verdicts and scores, they never
// rewrite table contents.
package model
