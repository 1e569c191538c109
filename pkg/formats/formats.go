// Package formats provides parsers for 3D mesh file formats.
//
// STL is supported in both of its encodings. Binary files are recognised by
// an exact size match against the triangle count in the header; anything
// else starting with "solid" is read as ASCII.
package formats
