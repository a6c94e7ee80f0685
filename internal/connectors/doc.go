// Package connectors holds the remote material sources: Google Classroom
// and Drive, GitHub and plain web links. Each fetcher implements
// driven.MaterialFetcher and is registered with the import service at
// startup.
package connectors
