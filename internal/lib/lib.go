// Package lib groups the supporting clients the services lean on:
// blob storage for image bytes, the asynq job worker, transactional email
// through Resend, and small shared helpers.
package lib
