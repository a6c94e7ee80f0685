// Package github downloads PDFs committed to GitHub repositories.
//
// A material is referenced by its web URL, either a blob link
// (github.com/{owner}/{repo}/blob/{ref}/{path}) or a raw link
// (raw.githubusercontent.com/{owner}/{repo}/{ref}/{path}). The ref is the
// first path segment after the repository, so branch names containing '/'
// are not supported.
//
// # Authentication
//
// A personal access token (github.token or GITHUB_TOKEN) is optional. It is
// needed for private repositories and raises the API quota from 60 to 5,000
// requests per hour.
//
// # Rate limiting
//
// Requests are throttled with a token bucket and paused when the quota
// reported in X-RateLimit-* headers runs low.
package github
