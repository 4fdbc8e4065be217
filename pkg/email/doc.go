// Package email sends transactional mail. The production sender uses
// Postmark; when its tokens are absent a logging sender stands in so the
// password reset endpoint keeps working in development.
package email
