// Package errs defines the error shapes the API returns.
//
// HTTPError is the JSON body every failed request receives. Error carries
// a domain Kind (not found, forbidden, file too large, ...) that services
// and adapters return and the global error handler maps onto an HTTPError.
package errs
