// Package util provides shared helpers for bounding captured payload fields.
//
//   - TruncateField — cap request/response payloads before they enter the
//     log store
package util
