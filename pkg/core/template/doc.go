// Package template defines canvas templates and their slots.
//
// # Overview
//
// A [Template] is a declarative layout: an ordered list of [Slot] values, each
// a named placeholder region on a design canvas. Slot geometry is expressed in
// percent of the canvas with a center anchor, so one template serves every
// canvas size it targets:
//
//	Slot{ID: "hero", Position: Position{X: 50, Y: 50}, Size: Size{Width: 80, Height: 60}}
//
// covers the middle 80% × 60% of any canvas.
//
// # Closed Vocabularies
//
// [Category], [ColorScheme], [AutoFit] and [CanvasType] are closed string
// enums. The Parse* constructors and UnmarshalText methods reject unknown
// values, so a typo in a catalog file fails at load time instead of silently
// producing a template that matches nothing.
//
// # Validation
//
// [Validate] reports every structural problem at once:
//
//	v := template.Validate(t)
//	if !v.Valid {
//	    for _, e := range v.Errors {
//	        fmt.Println(e.Code, e.SlotID, e.Message)
//	    }
//	}
//
// Validation is advisory. The engine still matches against invalid templates;
// callers decide whether to block on [Validation.Err].
//
// # Immutability
//
// Templates are plain values but contain slices. Use [Template.Clone] before
// handing catalog data to code that may modify it.
package template
