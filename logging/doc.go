// Package logging routes both bridge and wrapped-library output through
// zap.
//
// The wrapped library expects its own logger interface (one logger per
// storage container and per client). This package adapts zap to that
// interface and keeps the two module levels, Database and Client, which
// the host can change at runtime via the set-log-options operation:
//
//	logging.SetOptions(logging.Options{Client: "WARN"})
//	cli := whatsmeow.NewClient(device, logging.Client())
//
// Level "none" returns a no-op logger. Color selects between plain and
// ANSI-colored console encoding. Bridge packages that want a structured
// zap logger of their own use Zap directly and install it through their
// package SetLogger.
package logging
