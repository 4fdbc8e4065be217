// Package apierror defines the error taxonomy shared by all callable
// operations. Errors cross the API boundary as a {kind, message} pair;
// the kind doubles as the HTTP status selector so handlers never invent
// ad-hoc status codes.
package apierror
