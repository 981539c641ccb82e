// Package sqlerr translates Postgres driver errors.
//
// SQLSTATE codes are mapped onto a small set of categories and then into
// client-safe errs.HTTPError values, e.g. a CHECK violation on
// businesses.rating becomes a 400 with a readable message.
package sqlerr
