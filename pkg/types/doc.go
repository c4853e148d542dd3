// Package types defines the catalog and inventory entities, request and
// response payloads, configuration, and standard errors shared by the icebox
// protocol, model, and storage layers.
package types
