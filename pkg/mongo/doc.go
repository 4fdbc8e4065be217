// Package mongo manages the MongoDB connection: environment-driven
// configuration, connect-time retries, and a ping-based healthcheck for the
// HTTP health endpoint.
package mongo
