// Package fuzztests houses Go fuzz harnesses for the console stripper and the
// file decoding that feeds it. They guard against panics and check the
// properties every rewrite must keep on arbitrary input.
package fuzztests
