// Package pdf extracts per-page text from PDF files.
//
// Two engines are available:
//
//   - native: pure Go, backed by github.com/ledongthuc/pdf. Always compiled.
//   - fitz: MuPDF via github.com/gen2brain/go-fitz. Compiled only with the
//     "fitz" build tag; otherwise New returns domain.ErrNotImplemented.
//
// Extractors read from a path on disk. Callers are responsible for staging
// uploaded bytes in a temporary file and removing it afterwards.
package pdf
