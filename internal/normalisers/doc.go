// Package normalisers turns source documents into page-tagged text.
// The pdf subpackage is the only format pdfqa reads.
package normalisers
