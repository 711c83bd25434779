package parser

import "io"

// Parser defines a generic interface for normalizing a directory response
// body into a sequence of records
type Parser[T any] interface {
	Parse(body io.Reader) ([]T, error)
}
