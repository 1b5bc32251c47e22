// Package authguard contains the Vantage authorization guard: actor
// resolution at the request boundary and the single role-by-relationship
// decision point every marketplace operation consults.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package authguard
