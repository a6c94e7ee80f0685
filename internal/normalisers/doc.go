// Package normalisers turns uploaded files into plain text.
//
// StudyMate only accepts PDFs; see the pdf subpackage.
package normalisers
