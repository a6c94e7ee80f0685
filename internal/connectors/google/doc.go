// Package google provides shared plumbing for the Google Classroom and Drive
// material sources: OAuth configuration, API service construction, request
// rate limiting and error mapping.
//
// The classroom and drive subpackages build on it.
package google
