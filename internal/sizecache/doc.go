// Package sizecache persists directory sizes keyed by path.
//
// A Record pairs a computed size with the modification time the directory had
// when the size was computed. Callers compare that time against the current
// one to decide whether the size can be reused. Records are never evicted.
package sizecache
