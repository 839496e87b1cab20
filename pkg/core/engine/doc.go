// Package engine decides which asset goes into which template slot.
//
// # The Assignment Problem
//
// A template declares a handful of slots, each accepting a set of asset
// types. Given a pool of assets, the engine fills as many slots as it can,
// with two hard rules: a slot holds at most one asset, and one assignment
// pass uses an asset at most once.
//
// The engine is greedy. It never backtracks, so a pick that consumes the
// only eligible asset for a later required slot is kept. Slot counts are in
// the single digits and users expect placement they can predict, so the
// engine trades optimality for explainability.
//
// # Single Asset Matching
//
// [FindBestSlot] picks the best open slot for one asset (the drag-and-drop
// case). Candidates are slots accepting the asset's type that are not yet
// assigned, ranked by:
//
//  1. Required before optional
//  2. Larger area (width × height) before smaller
//  3. Lower zIndex
//  4. Earlier declaration in the template
//
// The ranking is a total order, so the result is deterministic.
//
// # Auto-Assignment
//
// [AutoAssign] fills a whole template from a pool. Required slots are
// processed first, then optional ones, each in declaration order. Every slot
// takes the first unused asset (in input order) whose type it accepts.
// Callers usually sort the pool by recency, so recent uploads win.
//
// Auto-assignment never fails. Required slots left empty are reported in
// [SlotAssignment.UnfilledRequired]; callers decide whether to block export.
//
// # Placements
//
// [Apply] turns an assignment into an [placement.AppliedTemplate], emitting
// placements in slot declaration order. [Status] summarizes completeness.
//
//	a := engine.AutoAssign(tmpl, assets)
//	applied := engine.Apply(tmpl, a, assets)
//	if st := engine.Status(applied); !st.IsComplete {
//	    fmt.Println("missing:", st.UnfilledRequiredSlotIDs)
//	}
//
// Every function here is pure: no globals, no I/O, no locking. Inputs are
// never modified.
package engine
