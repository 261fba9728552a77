// Package grid turns nested JSON records into a flat, mergeable table.
//
// # Overview
//
// Grid widgets want a header tree, one flat map per row and rowspan hints.
// Records from APIs are nested objects with arrays of objects inside. This
// package bridges the two with three pure stages:
//
//  1. [BuildColumns] derives the column tree. Keys are unioned across all
//     records and sorted; nested objects and object arrays become group
//     columns while the depth bound allows.
//  2. [ExpandRows] flattens each record. Nested objects inline under dotted
//     paths; the first object array fans the record out into one row per
//     element; sibling object arrays zip by index.
//  3. [ApplyMerges] annotates each record's block of rows with [Span]
//     values so that replicated parent values render once.
//
// [Transform] runs all three and fills explicit missing cells, so every row
// has an entry for every leaf column.
//
// # Example
//
//	records := []jsonvalue.Object{{
//	    "id":   jsonvalue.String("a"),
//	    "tags": jsonvalue.Array(
//	        jsonvalue.Obj(jsonvalue.Object{"t": jsonvalue.String("x")}),
//	        jsonvalue.Obj(jsonvalue.Object{"t": jsonvalue.String("y")}),
//	    ),
//	}}
//	t := grid.Transform(records, grid.DefaultOptions())
//
// t has columns id and tags (group of tags.t), and two rows. Column id is
// Head(2) on the first row and Suppressed on the second; tags.t is not
// merged because it belongs to the fanned array.
//
// # Depth
//
// Nesting is followed while the depth is below MaxDepth. With MaxDepth 0
// every top-level key is a leaf and nested values render as placeholders
// such as "[object]" or "[object array, 2 items]".
//
// # Empty arrays
//
// An empty array is ambiguous: it may be an object array without elements.
// [EmptyArraysKeep] (the default) keeps the record as one row and shows
// "[array, 0 items]". [EmptyArraysDrop] treats it as an empty object array,
// so a record whose driving array is empty produces no rows.
//
// # Concurrency
//
// All functions are pure and allocate fresh output; they are safe to call
// from multiple goroutines on shared input.
package grid
