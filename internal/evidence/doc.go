// Package evidence defines the records exchanged between pipeline phases and
// the consolidated bundle returned to callers.
//
// Field tags follow the bundle's published JSON shape so the bundle can be
// written directly with encoding/json.
package evidence
