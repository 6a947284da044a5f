package errs

import "fmt"

// ValidationError means a required answer was absent from the
// submission. It is raised before any side effect.
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

type RepositoryError struct {
	RepoName string
	Err      error
}

func (e RepositoryError) Error() string {
	return fmt.Sprintf("repository error for %v: %v", e.RepoName, e.Err)
}

func (e RepositoryError) Unwrap() error { return e.Err }

// BuildPlatformError carries whatever app identifiers were known at the
// point of failure, for manual follow-up.
type BuildPlatformError struct {
	AppName string
	AppARN  string
	AppID   string
	Err     error
}

func (e BuildPlatformError) Error() string {
	return fmt.Sprintf("build platform error (app=%v arn=%v id=%v): %v", e.AppName, e.AppARN, e.AppID, e.Err)
}

func (e BuildPlatformError) Unwrap() error { return e.Err }

// DNSVerificationError means the custom domain does not resolve toward
// the expected target. A zone created before verification is left in
// place.
type DNSVerificationError struct {
	Domain string
	Target string
	Err    error
}

func (e DNSVerificationError) Error() string {
	return fmt.Sprintf("dns for %v does not resolve to %v: %v", e.Domain, e.Target, e.Err)
}

func (e DNSVerificationError) Unwrap() error { return e.Err }

type AliasError struct {
	Domain string
	ZoneID string
	Err    error
}

func (e AliasError) Error() string {
	return fmt.Sprintf("error aliasing %v to zone %v: %v", e.Domain, e.ZoneID, e.Err)
}

func (e AliasError) Unwrap() error { return e.Err }

// MailTransportError is swallowed by the notifier and only logged; it
// never changes the outcome of the originating request.
type MailTransportError struct {
	Err error
}

func (e MailTransportError) Error() string {
	return fmt.Sprintf("mail transport error: %v", e.Err)
}

func (e MailTransportError) Unwrap() error { return e.Err }

// RetryableError marks a failure that is safe to attempt again, such as
// a deploy that has not finished yet.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e RetryableError) Unwrap() error { return e.Err }
