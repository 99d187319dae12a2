// Package preview implements the watch command: a static file server over the
// output tree and a recursive filesystem observer whose qualifying events are
// coalesced into full regenerations.
package preview
