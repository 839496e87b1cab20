// Package io reads and writes the JSON documents exchanged with the CLI
// and external editors.
//
// # Documents
//
// Every reader accepts either a bare array or an object wrapping it, so
// both of these are valid asset files:
//
//	[{"id": "shoe", "assetType": "product", "url": "https://cdn.example.com/shoe.png"}]
//
//	{"assets": [{"id": "shoe", "assetType": "product", "url": "https://cdn.example.com/shoe.png"}]}
//
// Asset files are validated on read: ids must be safe identifiers, types
// must be known and URLs must be absolute http(s) or data URLs.
//
// Element files hold canvas elements in pixel space, as produced by
// `slotcraft elements` or an external editor. Placement files hold
// percent-space placements. Assignment files map slot ids to asset ids:
//
//	{"product": "shoe", "logo": "acme"}
//
// # Paths
//
// The Import* helpers read from a file, or from standard input when the
// path is "-".
package io
