package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRoot       = "root"
	KeyPart       = "part"
	KeySite       = "site"
	KeyStore      = "store"
	KeyIdentity   = "identity"
	KeyEntries    = "entries"
	KeyParts      = "parts"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyReason     = "reason"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Root(path string) slog.Attr      { return slog.String(KeyRoot, path) }
func Part(index int) slog.Attr        { return slog.Int(KeyPart, index) }
func Site(name string) slog.Attr      { return slog.String(KeySite, name) }
func Store(backend string) slog.Attr  { return slog.String(KeyStore, backend) }
func Identity(id string) slog.Attr    { return slog.String(KeyIdentity, id) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Parts(n int) slog.Attr           { return slog.Int(KeyParts, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Elapsed reports the time since start in milliseconds.
func Elapsed(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
