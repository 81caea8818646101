// Package render writes a resolved plan to the host: the shared directory
// layout, TLS material and every artifact the drivers declared.
//
// Writes go through a FileWriter rooted at the configured prefix. Files are
// replaced atomically, unchanged files are left in place and links are
// relative so a tree rendered under a prefix is self-consistent. In dry-run
// mode the writer prints a line diff of each change instead.
package render
