// Package dirstat computes disk usage statistics for directory trees.
//
// Aggregate walks a tree without following symlinks, totalling sizes and
// feeding the largest files and subdirectories into TopN retainers.
// CachedSize sizes a single directory through a sizecache.Store, skipping
// subtrees whose modification time has not advanced. List produces a
// one-level listing for interactive browsing. Extensions breaks a tree down
// by file extension using a parallel walk.
//
// All functions read through an afero.Fs so that callers can substitute an
// in-memory filesystem.
package dirstat
