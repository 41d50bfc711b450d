// Package internalcheck holds static policy tests for the rsaenc package.
//
// It has no exported API. The tests load rsaenc with go/packages and fail
// on constructs that are not allowed in padding code, such as variable-time
// byte comparisons or non-cryptographic randomness.
package internalcheck
