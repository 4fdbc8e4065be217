// Package identity wraps the external identity provider that owns user
// credentials. The rest of the system treats it as a collaborator with
// irreversible side effects: there is no transaction spanning the provider
// and the document store.
package identity
