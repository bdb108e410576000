// Package parser
// Author: momentics <momentics@gmail.com>
//
// Package parser extracts the request line and header fields of a single
// HTTP/1.1 request from a byte stream delivered in arbitrary chunks. It stops
// at the end of the header block and never touches body bytes, which is all
// an opening handshake needs.
package parser
