// Package community manages the property hierarchy of a tenant:
// communities contain blocks, blocks contain floors, and floors contain
// units. Units may be linked to an owning user from the iam module.
//
// All queries run on the per-request tenant handle; the package holds no
// connection state of its own.
package community
