// Package core holds the HTTP response envelope and error types shared by the
// service's HTTP modules.
package core
