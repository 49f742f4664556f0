// Package connectors holds the document sources that feed the ingestion
// pipeline. The filesystem connector watches a local directory for PDFs.
package connectors
