// Package response shapes token exchange results into the wire envelope.
//
// Every token and introspection reply, success or denial, is wrapped in the
// same TokenResponseEnvelope: exactly one of the Result parameter map and the
// Errors list is populated. The shaper is a plain transformation called by the
// HTTP layer, not a hook registered in a pipeline.
package response
