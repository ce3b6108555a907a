package arbor

// Version is the released version of the module, stamped into CLI output
// and the HTTP health endpoint.
const Version = "0.1.0"
