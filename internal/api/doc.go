// Package api holds the HTTP handlers for accounts, role selection and
// tasks. Handlers accept URL-encoded forms or flat JSON objects, answer
// with JSON, and redirect with 303 after a successful or denied action.
// Errors reach clients only through HandleAPIError.
package api
