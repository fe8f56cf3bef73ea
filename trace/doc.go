// Package trace reads, writes and generates allocation traces.
//
// # Format
//
// A trace is a text file. Four header values come first, one per line:
//
//	<suggested heap size>
//	<number of ids>
//	<number of ops>
//	<weight>
//
// followed by one operation per line:
//
//	a <id> <bytes>   allocate <bytes> and name the block <id>
//	r <id> <bytes>   resize block <id> to <bytes>
//	f <id>           free block <id>
//
// Ids run from 0 to the number of ids minus one. Blank lines and lines
// starting with # are ignored. Files may carry a UTF-8 BOM or be UTF-16 with
// a BOM. Open transparently decompresses gzip and zstd files.
package trace
