// Package integration provides integration tests for the router API server.
// They start the complete server on a loopback port and exercise catalog
// loading from files and remote routers, service selection and job dispatch.
package integration
