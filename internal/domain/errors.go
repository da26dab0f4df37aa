package domain

import "errors"

// ErrPrivate indicates the engine reported the item as private or unavailable
var ErrPrivate = errors.New("video is private or unavailable")

// ErrAuthRequired indicates a sign-in wall or rate limit from upstream
var ErrAuthRequired = errors.New("authentication required or rate-limited")

// ErrRetriesExhausted wraps the last auth error once every attempt is used up
var ErrRetriesExhausted = errors.New("retries exhausted")

// ErrTransfer marks a failure during the download phase (files may be incomplete)
var ErrTransfer = errors.New("transfer failed")

// ErrStopped indicates a stop request was honored before the item finished
var ErrStopped = errors.New("stopped by user")

// ErrCookieFileNotFound indicates cookie file mode with a path that is not a regular file
var ErrCookieFileNotFound = errors.New("cookie file not found")

// ErrNoEntries indicates a listing probe returned nothing usable
var ErrNoEntries = errors.New("no entries found")

// ErrRunNotFound is returned by history stores for unknown run IDs
var ErrRunNotFound = errors.New("run not found")
