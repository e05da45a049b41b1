// Package invoke dispatches matched jobs to backend services.
//
// Each catalog service type has one Invoker. The Factory maps a descriptor's
// type tag to its invoker and wraps it with invocation metrics:
//
//   - noop: answers immediately with the request's granule links
//   - http: posts the job to the service's params.url
//   - workflow: submits the job to the workflow engine and polls it to completion
package invoke
