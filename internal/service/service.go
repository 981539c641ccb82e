// Package service holds the business rules: ownership checks, the image
// association workflow and account provisioning. Handlers call it with
// validated input; it talks to the record store, the blob store and the
// auth provider through the interfaces declared here.
package service
